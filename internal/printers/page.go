// Package printers renders catalog data for non-interactive commands.
package printers

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"assetgrip/internal/domain"
)

// PageInfo describes where a printed page sits in its listing
type PageInfo struct {
	Category    string
	Subcategory string
	Page        int
	TotalPages  int
	TotalItems  int
}

// Page writes one catalog page as a table followed by a pagination footer
func Page(w io.Writer, info PageInfo, items []domain.AssetSummary) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Name"), bold.Sprint("Kind"), bold.Sprint("Description"))
	for _, it := range items {
		tbl.AddRow(strconv.Itoa(it.ID), orDash(it.Name), orDash(it.Kind), it.Description)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)

	label := info.Category
	if info.Subcategory != "" && info.Subcategory != domain.SubcategoryAll {
		label = fmt.Sprintf("%s / %s", info.Category, info.Subcategory)
	}
	_, _ = fmt.Fprintln(w, faint.Sprintf("%s: page %d of %d, %d items", label, info.Page+1, info.TotalPages, info.TotalItems))
}

// Counts writes the per-category totals in menu order
func Counts(w io.Writer, counts map[string]int) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Category"), bold.Sprint("Items"))
	for _, cat := range domain.AppearanceCategories {
		tbl.AddRow(cat, strconv.Itoa(counts[cat]))
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(w, tbl)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
