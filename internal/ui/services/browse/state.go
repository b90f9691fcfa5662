package browse

import "assetgrip/internal/domain"

// DefaultPageSize is used when no page size is configured
const DefaultPageSize = 60

// State is the current position in a catalog listing
type State struct {
	Category    string
	Subcategory string
	Page        int
	PageSize    int
	SearchTerm  string
	TotalItems  int
}

// TotalPages is ceil(TotalItems / PageSize), never less than 1
func (s State) TotalPages() int {
	if s.PageSize <= 0 || s.TotalItems <= 0 {
		return 1
	}
	return (s.TotalItems + s.PageSize - 1) / s.PageSize
}

// LastPage is the highest valid page index
func (s State) LastPage() int {
	return s.TotalPages() - 1
}

// ValidPage reports whether page is inside [0, TotalPages())
func (s State) ValidPage(page int) bool {
	return page >= 0 && page < s.TotalPages()
}

// SoundSubcategories are the fixed listings offered for the Sounds category
var SoundSubcategories = []domain.Subcategory{
	{Value: domain.SubcategoryAll, DisplayName: domain.SubcategoryAll},
	{Value: domain.SubcategoryAmbienceStreams, DisplayName: domain.SubcategoryAmbienceStreams},
	{Value: domain.SubcategoryAmbienceObjectStreams, DisplayName: domain.SubcategoryAmbienceObjectStreams},
	{Value: domain.SubcategoryMusicTemplates, DisplayName: domain.SubcategoryMusicTemplates},
}
