package detail

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"assetgrip/internal/domain"
	"assetgrip/internal/eventbus"
	"assetgrip/internal/logger"
	"assetgrip/internal/ui/services/browse"
)

// Direction of a prev/next move
type Direction int

const (
	Previous Direction = iota
	Next
)

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// ButtonState drives the enabled state of the prev/next controls
type ButtonState struct {
	HasPrev bool
	HasNext bool
}

// Browser is the view of the browse listing the navigator walks over
type Browser interface {
	State() browse.State
	Active() bool
	Rendered() []domain.AssetRef
	Item(ref domain.AssetRef) (domain.AssetSummary, bool)
	ChangePage(ctx context.Context, page int) (bool, error)
}

// Loader fetches full records for the detail pane
type Loader interface {
	GetCompleteAppearance(ctx context.Context, ref domain.AssetRef) (domain.Appearance, error)
	GetNumericSoundEffectByID(ctx context.Context, id int) (domain.AssetSummary, error)
}

// Navigator holds the asset shown in the detail pane and moves it through
// the rendered listing, crossing page boundaries when needed.
type Navigator struct {
	mu         sync.Mutex
	current    *domain.AssetRef
	record     domain.Appearance
	navigating atomic.Bool
	browser    Browser
	loader     Loader
	bus        eventbus.EventBus
}

// NewNavigator creates a navigator. bus may be nil.
func NewNavigator(browser Browser, loader Loader, bus eventbus.EventBus) *Navigator {
	return &Navigator{browser: browser, loader: loader, bus: bus}
}

// Current returns the asset shown in the detail pane
func (n *Navigator) Current() (domain.AssetRef, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return domain.AssetRef{}, false
	}
	return *n.current, true
}

// Record returns the loaded record of the current asset
func (n *Navigator) Record() (domain.Appearance, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.record, n.current != nil
}

// IsNavigating reports whether a prev/next move is in flight
func (n *Navigator) IsNavigating() bool {
	return n.navigating.Load()
}

// Open loads ref and makes it the current asset. On failure the previous
// asset stays current.
func (n *Navigator) Open(ctx context.Context, ref domain.AssetRef) error {
	record, err := n.load(ctx, ref)
	if err != nil {
		return fmt.Errorf("open %s: %w", ref, err)
	}

	n.mu.Lock()
	n.current = &ref
	n.record = record
	n.mu.Unlock()

	if n.bus != nil {
		n.bus.Publish(domain.AssetOpenedEvent{Ref: ref})
	}
	return nil
}

// Close clears the detail pane
func (n *Navigator) Close() {
	n.mu.Lock()
	n.current = nil
	n.record = domain.Appearance{}
	n.mu.Unlock()
}

// NavigateAdjacent opens the previous or next asset. Only one move runs at a
// time; a call made while another is in flight returns false immediately.
func (n *Navigator) NavigateAdjacent(ctx context.Context, dir Direction) (bool, error) {
	if !n.navigating.CompareAndSwap(false, true) {
		logger.Debug("navigation already in progress", zap.Stringer("direction", dir))
		return false, nil
	}
	defer n.navigating.Store(false)

	cur, ok := n.Current()
	if !ok {
		return false, nil
	}
	origPage := n.browser.State().Page

	target, found, err := n.resolve(ctx, cur, dir)
	if err != nil {
		logger.Error("failed to load adjacent page",
			zap.String("asset", cur.String()),
			zap.Stringer("direction", dir),
			zap.Error(err))
		return false, err
	}
	if !found {
		return false, nil
	}

	if err := n.Open(ctx, target); err != nil {
		logger.Error("failed to open adjacent asset",
			zap.String("asset", target.String()),
			zap.Error(err))
		n.restorePage(ctx, origPage)
		return false, err
	}
	return true, nil
}

// restorePage brings the listing back to page after a move that turned the
// page but could not open its target, so cur is rendered again
func (n *Navigator) restorePage(ctx context.Context, page int) {
	if n.browser.State().Page == page {
		return
	}
	if _, err := n.browser.ChangePage(ctx, page); err != nil {
		logger.Warn("failed to restore page after navigation error",
			zap.Int("page", page),
			zap.Error(err))
	}
}

// resolve finds the neighbour of cur, changing the browse page when cur
// sits on the edge of the rendered listing.
func (n *Navigator) resolve(ctx context.Context, cur domain.AssetRef, dir Direction) (domain.AssetRef, bool, error) {
	rendered := n.browser.Rendered()
	idx := indexOf(rendered, cur)
	st := n.browser.State()
	sameCategory := n.browser.Active() && cur.Category == st.Category

	switch dir {
	case Previous:
		if idx > 0 {
			return rendered[idx-1], true, nil
		}
		if !sameCategory || st.Page <= 0 {
			return domain.AssetRef{}, false, nil
		}
		page, err := n.turnPage(ctx, st.Page-1)
		if err != nil || len(page) == 0 {
			return domain.AssetRef{}, false, err
		}
		return page[len(page)-1], true, nil

	default:
		if idx >= 0 && idx < len(rendered)-1 {
			return rendered[idx+1], true, nil
		}
		if !sameCategory || st.Page >= st.LastPage() {
			return domain.AssetRef{}, false, nil
		}
		page, err := n.turnPage(ctx, st.Page+1)
		if err != nil || len(page) == 0 {
			return domain.AssetRef{}, false, err
		}
		return page[0], true, nil
	}
}

func (n *Navigator) turnPage(ctx context.Context, page int) ([]domain.AssetRef, error) {
	ok, err := n.browser.ChangePage(ctx, page)
	if err != nil || !ok {
		return nil, err
	}
	return n.browser.Rendered(), nil
}

// Buttons derives prev/next availability from the current asset and the
// rendered listing
func (n *Navigator) Buttons() ButtonState {
	cur, ok := n.Current()
	if !ok {
		return ButtonState{}
	}
	rendered := n.browser.Rendered()
	st := n.browser.State()
	return DeriveButtons(indexOf(rendered, cur), len(rendered), n.browser.Active() && cur.Category == st.Category, st.Page, st.TotalPages())
}

// DeriveButtons computes prev/next availability for an asset at index in a
// rendered page of length items
func DeriveButtons(index, length int, sameCategory bool, page, totalPages int) ButtonState {
	return ButtonState{
		HasPrev: index > 0 || (sameCategory && index <= 0 && page > 0),
		HasNext: (index >= 0 && index < length-1) ||
			(sameCategory && index == length-1 && page < totalPages-1),
	}
}

func (n *Navigator) load(ctx context.Context, ref domain.AssetRef) (domain.Appearance, error) {
	if domain.IsAppearanceCategory(ref.Category) {
		return n.loader.GetCompleteAppearance(ctx, ref)
	}
	if ref.Category != domain.CategorySounds {
		return domain.Appearance{}, fmt.Errorf("unknown category %q", ref.Category)
	}

	// Streams and templates have no lookup command; their listing row is the record.
	switch n.browser.State().Subcategory {
	case domain.SubcategoryAmbienceStreams, domain.SubcategoryAmbienceObjectStreams, domain.SubcategoryMusicTemplates:
		item, ok := n.browser.Item(ref)
		if !ok {
			return domain.Appearance{}, fmt.Errorf("%s is not in the current listing", ref)
		}
		return soundRecord(item), nil
	}
	item, err := n.loader.GetNumericSoundEffectByID(ctx, ref.ID)
	if err != nil {
		return domain.Appearance{}, err
	}
	return soundRecord(item), nil
}

func soundRecord(item domain.AssetSummary) domain.Appearance {
	return domain.Appearance{
		ID:          item.ID,
		Category:    domain.CategorySounds,
		Name:        item.Name,
		Description: item.Description,
		Subcategory: item.Kind,
	}
}

func indexOf(refs []domain.AssetRef, ref domain.AssetRef) int {
	for i, r := range refs {
		if r == ref {
			return i
		}
	}
	return -1
}
