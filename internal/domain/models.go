package domain

import "fmt"

// Catalog categories
const (
	CategoryObjects  = "Objects"
	CategoryOutfits  = "Outfits"
	CategoryEffects  = "Effects"
	CategoryMissiles = "Missiles"
	CategorySounds   = "Sounds"
)

// Sound subcategories that map to their own backend listings
const (
	SubcategoryAll                   = "All"
	SubcategoryAmbienceStreams       = "Ambience Streams"
	SubcategoryAmbienceObjectStreams = "Ambience Object Streams"
	SubcategoryMusicTemplates        = "Music Templates"
)

// AppearanceCategories are the categories served by the appearances listing
var AppearanceCategories = []string{
	CategoryObjects,
	CategoryOutfits,
	CategoryEffects,
	CategoryMissiles,
}

// Categories lists every browsable category in menu order
var Categories = append(append([]string{}, AppearanceCategories...), CategorySounds)

// IsAppearanceCategory reports whether category is backed by appearances data
func IsAppearanceCategory(category string) bool {
	for _, c := range AppearanceCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsKnownCategory reports whether category is one of the browsable categories
func IsKnownCategory(category string) bool {
	return category == CategorySounds || IsAppearanceCategory(category)
}

// AssetRef identifies one catalog entry. It is a comparable value type.
type AssetRef struct {
	Category string `json:"category" yaml:"category"`
	ID       int    `json:"id" yaml:"id"`
}

func (r AssetRef) String() string {
	return fmt.Sprintf("%s#%d", r.Category, r.ID)
}

// AssetSummary is one row of a catalog page
type AssetSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind,omitempty"` // sound type or object subcategory
}

// Page is a single fetched page of a catalog listing
type Page struct {
	Total int            `json:"total"`
	Items []AssetSummary `json:"items"`
}

// Appearance is the complete record returned for a detail view. Flags and
// frame data stay opaque; only what the browser displays is typed.
type Appearance struct {
	ID          int            `json:"id" yaml:"id"`
	Category    string         `json:"category" yaml:"category"`
	Name        string         `json:"name,omitempty" yaml:"name,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Subcategory string         `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Flags       map[string]any `json:"flags,omitempty" yaml:"flags,omitempty"`
	SpriteCount int            `json:"spriteCount,omitempty" yaml:"sprite_count,omitempty"`
}

// Subcategory is a (value, display name) pair offered by the backend
type Subcategory struct {
	Value       string
	DisplayName string
}
