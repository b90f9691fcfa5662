package backend

import (
	"context"
	"fmt"

	"assetgrip/internal/domain"
)

// Client exposes the backend commands the browser uses as typed methods
type Client struct {
	invoker Invoker
}

// NewClient wraps an Invoker
func NewClient(invoker Invoker) *Client {
	return &Client{invoker: invoker}
}

// Query selects one page of an appearance listing
type Query struct {
	Category    string
	Page        int
	PageSize    int
	Search      string
	Subcategory string
}

// ListAppearancesByCategory returns one page of appearances together with the
// filtered total. Subcategory is only sent for Objects.
func (c *Client) ListAppearancesByCategory(ctx context.Context, q Query) (domain.Page, error) {
	var page domain.Page
	err := c.invoker.Invoke(ctx, CmdListAppearancesByCategory, map[string]any{
		"category":    q.Category,
		"page":        q.Page,
		"pageSize":    q.PageSize,
		"search":      optional(q.Search),
		"subcategory": objectSubcategory(q.Category, q.Subcategory),
	}, &page)
	return page, err
}

// GetAppearanceCount returns how many appearances match the filters
func (c *Client) GetAppearanceCount(ctx context.Context, category, search, subcategory string) (int, error) {
	var count int
	err := c.invoker.Invoke(ctx, CmdGetAppearanceCount, map[string]any{
		"category":    category,
		"search":      optional(search),
		"subcategory": objectSubcategory(category, subcategory),
	}, &count)
	return count, err
}

// ListAllSounds returns every numeric sound effect without paging
func (c *Client) ListAllSounds(ctx context.Context) ([]domain.AssetSummary, error) {
	var items []domain.AssetSummary
	err := c.invoker.Invoke(ctx, CmdListAllSounds, nil, &items)
	return items, err
}

// ListNumericSoundEffects pages numeric sound effects, optionally filtered by type
func (c *Client) ListNumericSoundEffects(ctx context.Context, page, pageSize int, soundType string) (domain.Page, error) {
	return c.listPage(ctx, CmdListNumericSoundEffects, map[string]any{
		"page":      page,
		"pageSize":  pageSize,
		"soundType": optional(soundType),
	})
}

func (c *Client) ListAmbienceStreams(ctx context.Context, page, pageSize int) (domain.Page, error) {
	return c.listPage(ctx, CmdListAmbienceStreams, map[string]any{"page": page, "pageSize": pageSize})
}

func (c *Client) ListAmbienceObjectStreams(ctx context.Context, page, pageSize int) (domain.Page, error) {
	return c.listPage(ctx, CmdListAmbienceObjectStreams, map[string]any{"page": page, "pageSize": pageSize})
}

func (c *Client) ListMusicTemplates(ctx context.Context, page, pageSize int) (domain.Page, error) {
	return c.listPage(ctx, CmdListMusicTemplates, map[string]any{"page": page, "pageSize": pageSize})
}

func (c *Client) listPage(ctx context.Context, command string, args map[string]any) (domain.Page, error) {
	var page domain.Page
	err := c.invoker.Invoke(ctx, command, args, &page)
	return page, err
}

// GetCompleteAppearance loads the full record for a detail view
func (c *Client) GetCompleteAppearance(ctx context.Context, ref domain.AssetRef) (domain.Appearance, error) {
	var app domain.Appearance
	err := c.invoker.Invoke(ctx, CmdGetCompleteAppearance, refArgs(ref), &app)
	return app, err
}

// GetNumericSoundEffectByID loads one numeric sound effect
func (c *Client) GetNumericSoundEffectByID(ctx context.Context, id int) (domain.AssetSummary, error) {
	var sound domain.AssetSummary
	err := c.invoker.Invoke(ctx, CmdGetNumericSoundEffectByID, map[string]any{"id": id}, &sound)
	return sound, err
}

// GetItemSubcategories returns the object subcategories as (value, label) pairs
func (c *Client) GetItemSubcategories(ctx context.Context) ([]domain.Subcategory, error) {
	var pairs [][2]string
	if err := c.invoker.Invoke(ctx, CmdGetItemSubcategories, nil, &pairs); err != nil {
		return nil, err
	}
	subs := make([]domain.Subcategory, 0, len(pairs))
	for _, p := range pairs {
		subs = append(subs, domain.Subcategory{Value: p[0], DisplayName: p[1]})
	}
	return subs, nil
}

func (c *Client) DeleteAppearance(ctx context.Context, ref domain.AssetRef) error {
	return c.invoker.Invoke(ctx, CmdDeleteAppearance, refArgs(ref), nil)
}

// DuplicateAppearance copies ref to targetID, or to the next free id when
// targetID is nil. The backend bumps the id past any existing entry.
func (c *Client) DuplicateAppearance(ctx context.Context, ref domain.AssetRef, targetID *int) (domain.Appearance, error) {
	args := map[string]any{
		"category": ref.Category,
		"sourceId": ref.ID,
	}
	if targetID != nil {
		args["targetId"] = *targetID
	}
	var app domain.Appearance
	err := c.invoker.Invoke(ctx, CmdDuplicateAppearance, args, &app)
	return app, err
}

func (c *Client) CopyAppearanceFlags(ctx context.Context, ref domain.AssetRef) error {
	return c.invoker.Invoke(ctx, CmdCopyAppearanceFlags, refArgs(ref), nil)
}

func (c *Client) PasteAppearanceFlags(ctx context.Context, ref domain.AssetRef) error {
	return c.invoker.Invoke(ctx, CmdPasteAppearanceFlags, refArgs(ref), nil)
}

// SaveAppearancesFile persists pending appearance changes to disk
func (c *Client) SaveAppearancesFile(ctx context.Context) error {
	return c.invoker.Invoke(ctx, CmdSaveAppearancesFile, nil, nil)
}

// ExportAppearanceToJSON asks the backend to write ref as JSON to path
func (c *Client) ExportAppearanceToJSON(ctx context.Context, ref domain.AssetRef, path string) error {
	if path == "" {
		return fmt.Errorf("export %s: empty destination", ref)
	}
	args := refArgs(ref)
	args["path"] = path
	return c.invoker.Invoke(ctx, CmdExportAppearanceToJSON, args, nil)
}

func refArgs(ref domain.AssetRef) map[string]any {
	return map[string]any{"category": ref.Category, "id": ref.ID}
}

// optional maps an empty string to a JSON null
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func objectSubcategory(category, subcategory string) any {
	if category != domain.CategoryObjects || subcategory == domain.SubcategoryAll {
		return nil
	}
	return optional(subcategory)
}
