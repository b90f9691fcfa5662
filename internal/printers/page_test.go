package printers

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"assetgrip/internal/domain"
)

func TestPage(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	Page(&buf, PageInfo{
		Category:    domain.CategoryObjects,
		Subcategory: "Weapons",
		Page:        1,
		TotalPages:  3,
		TotalItems:  125,
	}, []domain.AssetSummary{
		{ID: 7, Name: "sword", Kind: "Weapons"},
		{ID: 1024},
	})

	out := buf.String()
	assert.Contains(t, out, "sword")
	assert.Contains(t, out, "1024")
	assert.Contains(t, out, "Objects / Weapons: page 2 of 3, 125 items")
}

func TestCounts(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	Counts(&buf, map[string]int{domain.CategoryObjects: 12, domain.CategoryMissiles: 3})
	out := buf.String()
	assert.Contains(t, out, "Objects")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "Outfits")
}
