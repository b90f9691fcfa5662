package browse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"assetgrip/internal/backend"
	"assetgrip/internal/domain"
	"assetgrip/internal/eventbus"
	"assetgrip/internal/logger"
)

var (
	// ErrStaleResponse is returned when a newer fetch was issued while this
	// one was in flight. The response is dropped.
	ErrStaleResponse = errors.New("stale catalog response")
	// ErrInvalidPage is returned for a non-positive page size
	ErrInvalidPage = errors.New("invalid page size")
	// ErrNoCategory is returned when no category has been opened yet
	ErrNoCategory = errors.New("no category open")
)

// Catalog is the part of the backend the browser reads from
type Catalog interface {
	ListAppearancesByCategory(ctx context.Context, q backend.Query) (domain.Page, error)
	GetAppearanceCount(ctx context.Context, category, search, subcategory string) (int, error)
	GetItemSubcategories(ctx context.Context) ([]domain.Subcategory, error)
	ListNumericSoundEffects(ctx context.Context, page, pageSize int, soundType string) (domain.Page, error)
	ListAmbienceStreams(ctx context.Context, page, pageSize int) (domain.Page, error)
	ListAmbienceObjectStreams(ctx context.Context, page, pageSize int) (domain.Page, error)
	ListMusicTemplates(ctx context.Context, page, pageSize int) (domain.Page, error)
}

// SelectionResetter drops the selection without recording history
type SelectionResetter interface {
	Reset()
}

// HistoryClearer empties the undo/redo stacks
type HistoryClearer interface {
	Clear()
}

// Service owns the browse state and the materialized page.
//
// Every mutation builds a candidate state and fetches it; the candidate only
// becomes current when the fetch succeeds and is still the latest request.
type Service struct {
	mu       sync.Mutex
	state    State
	items    []domain.AssetSummary
	active   bool
	latest   uint64
	catalog  Catalog
	bus      eventbus.EventBus
	sel      SelectionResetter
	history  HistoryClearer
	pageSize int
}

// NewService creates a browse service. bus, sel and hist may be nil.
func NewService(catalog Catalog, bus eventbus.EventBus, sel SelectionResetter, hist HistoryClearer, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{
		catalog:  catalog,
		bus:      bus,
		sel:      sel,
		history:  hist,
		pageSize: pageSize,
		state:    State{Subcategory: domain.SubcategoryAll, PageSize: pageSize},
	}
}

// State returns a copy of the current browse state
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether a category is open
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Items returns the summaries of the current page
func (s *Service) Items() []domain.AssetSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AssetSummary(nil), s.items...)
}

// Item looks up the summary of a rendered ref
func (s *Service) Item(ref domain.AssetRef) (domain.AssetSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref.Category != s.state.Category {
		return domain.AssetSummary{}, false
	}
	for _, it := range s.items {
		if it.ID == ref.ID {
			return it, true
		}
	}
	return domain.AssetSummary{}, false
}

// Rendered returns the refs of the current page in display order
func (s *Service) Rendered() []domain.AssetRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	refs := make([]domain.AssetRef, len(s.items))
	for i, it := range s.items {
		refs[i] = domain.AssetRef{Category: s.state.Category, ID: it.ID}
	}
	return refs
}

// IndexOf returns the position of ref in the rendered page, or -1
func (s *Service) IndexOf(ref domain.AssetRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ref.Category != s.state.Category {
		return -1
	}
	for i, it := range s.items {
		if it.ID == ref.ID {
			return i
		}
	}
	return -1
}

// OpenCategory switches to category with page, search and subcategory reset.
// The selection is dropped and undo history cleared once the new listing
// has loaded.
func (s *Service) OpenCategory(ctx context.Context, category string) error {
	return s.OpenCategoryWithSubcategory(ctx, category, domain.SubcategoryAll)
}

// OpenCategoryWithSubcategory is OpenCategory with a preselected subcategory
func (s *Service) OpenCategoryWithSubcategory(ctx context.Context, category, subcategory string) error {
	if !domain.IsKnownCategory(category) {
		return fmt.Errorf("open category: unknown category %q", category)
	}
	if subcategory == "" {
		subcategory = domain.SubcategoryAll
	}
	s.mu.Lock()
	candidate := State{
		Category:    category,
		Subcategory: subcategory,
		PageSize:    s.pageSize,
	}
	s.mu.Unlock()

	return s.fetch(ctx, candidate, true)
}

// ChangePage moves to page. Pages outside [0, TotalPages()) are ignored and
// report false.
func (s *Service) ChangePage(ctx context.Context, page int) (bool, error) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return false, ErrNoCategory
	}
	if !s.state.ValidPage(page) {
		s.mu.Unlock()
		logger.Debug("page out of range", zap.Int("page", page), zap.Int("totalPages", s.state.TotalPages()))
		return false, nil
	}
	candidate := s.state
	candidate.Page = page
	s.mu.Unlock()

	if err := s.fetch(ctx, candidate, false); err != nil {
		return false, err
	}
	return true, nil
}

// NextPage is ChangePage(page+1)
func (s *Service) NextPage(ctx context.Context) (bool, error) {
	return s.ChangePage(ctx, s.State().Page+1)
}

// PrevPage is ChangePage(page-1)
func (s *Service) PrevPage(ctx context.Context) (bool, error) {
	return s.ChangePage(ctx, s.State().Page-1)
}

// PerformSearch filters by the trimmed term and returns to the first page
func (s *Service) PerformSearch(ctx context.Context, term string) error {
	return s.refetchWith(ctx, func(st *State) {
		st.SearchTerm = strings.TrimSpace(term)
		st.Page = 0
	})
}

// ClearSearch removes the search filter
func (s *Service) ClearSearch(ctx context.Context) error {
	return s.PerformSearch(ctx, "")
}

// SwitchSubcategory changes the subcategory filter and returns to the first page
func (s *Service) SwitchSubcategory(ctx context.Context, subcategory string) error {
	if subcategory == "" {
		subcategory = domain.SubcategoryAll
	}
	return s.refetchWith(ctx, func(st *State) {
		st.Subcategory = subcategory
		st.Page = 0
	})
}

// ChangePageSize sets the page size for this and later listings
func (s *Service) ChangePageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPage, size)
	}
	s.mu.Lock()
	s.pageSize = size
	active := s.active
	s.mu.Unlock()
	if !active {
		return nil
	}
	return s.refetchWith(ctx, func(st *State) {
		st.PageSize = size
		st.Page = 0
	})
}

// Refresh refetches the current page
func (s *Service) Refresh(ctx context.Context) error {
	return s.refetchWith(ctx, func(*State) {})
}

// GoBack leaves the listing and drops the selection
func (s *Service) GoBack() {
	s.mu.Lock()
	s.active = false
	s.latest++
	s.items = nil
	s.mu.Unlock()
	if s.sel != nil {
		s.sel.Reset()
	}
}

// LoadSubcategories returns the subcategory filters offered for category
func (s *Service) LoadSubcategories(ctx context.Context, category string) ([]domain.Subcategory, error) {
	switch category {
	case domain.CategoryObjects:
		subs, err := s.catalog.GetItemSubcategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("load subcategories: %w", err)
		}
		return append([]domain.Subcategory{{Value: domain.SubcategoryAll, DisplayName: domain.SubcategoryAll}}, subs...), nil
	case domain.CategorySounds:
		return append([]domain.Subcategory(nil), SoundSubcategories...), nil
	}
	return nil, nil
}

// LoadCategoryCounts fetches the unfiltered size of every appearance
// category concurrently
func (s *Service) LoadCategoryCounts(ctx context.Context) (map[string]int, error) {
	counts := make([]int, len(domain.AppearanceCategories))
	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range domain.AppearanceCategories {
		g.Go(func() error {
			n, err := s.catalog.GetAppearanceCount(gctx, cat, "", "")
			if err != nil {
				return fmt.Errorf("count %s: %w", cat, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.publishError("Failed to load category counts", err)
		return nil, err
	}

	result := make(map[string]int, len(counts))
	for i, cat := range domain.AppearanceCategories {
		result[cat] = counts[i]
	}
	if s.bus != nil {
		s.bus.Publish(domain.CountsLoadedEvent{Counts: result})
	}
	return result, nil
}

func (s *Service) refetchWith(ctx context.Context, mutate func(*State)) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return ErrNoCategory
	}
	candidate := s.state
	s.mu.Unlock()
	mutate(&candidate)
	return s.fetch(ctx, candidate, false)
}

// fetch loads candidate and, if it is still the latest request, makes it
// current. A page past the end of the result is clamped and fetched again.
func (s *Service) fetch(ctx context.Context, candidate State, switching bool) error {
	s.mu.Lock()
	s.latest++
	token := s.latest
	s.mu.Unlock()

	page, err := s.fetchPage(ctx, candidate)
	if err == nil {
		candidate.TotalItems = page.Total
		if last := candidate.LastPage(); candidate.Page > last {
			candidate.Page = last
			page, err = s.fetchPage(ctx, candidate)
			candidate.TotalItems = page.Total
		}
	}

	s.mu.Lock()
	if token != s.latest {
		s.mu.Unlock()
		logger.Debug("dropping stale catalog response",
			zap.String("category", candidate.Category),
			zap.Int("page", candidate.Page))
		return ErrStaleResponse
	}
	if err != nil {
		s.mu.Unlock()
		logger.Error("catalog fetch failed",
			zap.String("category", candidate.Category),
			zap.Int("page", candidate.Page),
			zap.Error(err))
		s.publishError(fmt.Sprintf("Failed to load %s", candidate.Category), err)
		return fmt.Errorf("load %s page %d: %w", candidate.Category, candidate.Page, err)
	}
	s.state = candidate
	s.items = append([]domain.AssetSummary(nil), page.Items...)
	s.active = true
	rendered := len(s.items)
	s.mu.Unlock()

	if switching {
		if s.sel != nil {
			s.sel.Reset()
		}
		if s.history != nil {
			s.history.Clear()
		}
	}

	logger.Debug("catalog loaded",
		zap.String("category", candidate.Category),
		zap.String("subcategory", candidate.Subcategory),
		zap.Int("page", candidate.Page),
		zap.Int("total", candidate.TotalItems))

	if s.bus != nil {
		s.bus.Publish(domain.CatalogLoadedEvent{
			Category:    candidate.Category,
			Subcategory: candidate.Subcategory,
			Page:        candidate.Page,
			PageSize:    candidate.PageSize,
			TotalItems:  candidate.TotalItems,
			Rendered:    rendered,
		})
	}
	return nil
}

func (s *Service) fetchPage(ctx context.Context, st State) (domain.Page, error) {
	if st.Category != domain.CategorySounds {
		return s.catalog.ListAppearancesByCategory(ctx, backend.Query{
			Category:    st.Category,
			Page:        st.Page,
			PageSize:    st.PageSize,
			Search:      st.SearchTerm,
			Subcategory: st.Subcategory,
		})
	}

	switch st.Subcategory {
	case domain.SubcategoryAmbienceStreams:
		return s.catalog.ListAmbienceStreams(ctx, st.Page, st.PageSize)
	case domain.SubcategoryAmbienceObjectStreams:
		return s.catalog.ListAmbienceObjectStreams(ctx, st.Page, st.PageSize)
	case domain.SubcategoryMusicTemplates:
		return s.catalog.ListMusicTemplates(ctx, st.Page, st.PageSize)
	}
	soundType := ""
	if st.Subcategory != domain.SubcategoryAll {
		soundType = st.Subcategory
	}
	return s.catalog.ListNumericSoundEffects(ctx, st.Page, st.PageSize, soundType)
}

func (s *Service) publishError(message string, err error) {
	if s.bus != nil {
		s.bus.Publish(domain.ErrorEvent{Message: message, Err: err})
	}
}
