package views

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"assetgrip/internal/domain"
)

// Status kinds
const (
	StatusInfo    = "info"
	StatusError   = "error"
	StatusSuccess = "success"
	StatusLoading = "loading"
)

// DetailView is the asset shown in the detail pane
type DetailView struct {
	Ref        domain.AssetRef
	Record     domain.Appearance
	HasPrev    bool
	HasNext    bool
	Navigating bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Category      string // empty while the category menu is shown
	Subcategory   string
	Subcategories []string
	Counts        map[string]int
	MenuCursor    int

	Page       int
	TotalPages int
	TotalItems int
	PageSize   int
	SearchTerm string

	Items     []domain.AssetSummary
	Refs      []domain.AssetRef
	Selected  map[domain.AssetRef]bool
	Primary   *domain.AssetRef
	Cursor    int
	RowOffset int

	Detail *DetailView

	Loading       bool
	StatusMessage string
	StatusKind    string
	SelectedCount int
	UndoLabel     string
	RedoLabel     string

	InputPrompt  string
	TextInput    string
	ConfirmCount int
	HelpView     string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
	cards  *CardCache
}

// NewRenderer creates a new renderer
func NewRenderer(theme string) *Renderer {
	return &Renderer{
		styles: NewStyles(theme),
		cards:  NewCardCache(),
	}
}

// SetTheme swaps the styles and drops every cached card
func (r *Renderer) SetTheme(theme string) {
	r.styles = NewStyles(theme)
	r.cards.Reset()
}

// Theme returns the active theme name
func (r *Renderer) Theme() string {
	return r.styles.Theme
}

// Cards exposes the card cache so selection changes can invalidate entries
func (r *Renderer) Cards() *CardCache {
	return r.cards
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var b strings.Builder

	b.WriteString(r.renderHeader(state))
	b.WriteString("\n")

	switch {
	case state.ConfirmCount > 0:
		b.WriteString(r.styles.Confirm.Render(fmt.Sprintf("Delete %s? (y/n)", plural(state.ConfirmCount, "appearance"))))
		b.WriteString("\n\n")
	case state.InputPrompt != "":
		b.WriteString(state.InputPrompt + state.TextInput)
		b.WriteString("\n\n")
	}

	var main string
	switch {
	case state.Category == "":
		main = r.renderMenu(state)
	case state.Detail != nil:
		main = r.renderDetail(state)
	case len(state.Items) == 0 && state.Loading:
		main = r.styles.Dim.Render("Loading...")
	case len(state.Items) == 0:
		main = r.styles.Dim.Render("No assets found.")
	default:
		main = r.renderGrid(state)
	}
	b.WriteString(main)

	footer := r.renderStatus(state)
	if state.HelpView != "" {
		footer += "\n" + state.HelpView
	}

	// Push the footer to the bottom of the screen
	used := strings.Count(b.String(), "\n") + 1
	footerLines := strings.Count(footer, "\n") + 1
	if pad := state.Height - 2 - used - footerLines; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}
	b.WriteString("\n")
	b.WriteString(footer)

	return r.styles.Main.Render(b.String())
}

func (r *Renderer) renderHeader(state ViewState) string {
	logo := r.styles.Title.Render("assetgrip")

	tabs := make([]string, 0, len(domain.Categories))
	for i, cat := range domain.Categories {
		label := fmt.Sprintf("%d %s", i+1, cat)
		if n, ok := state.Counts[cat]; ok {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		if cat == state.Category {
			tabs = append(tabs, r.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, r.styles.Tab.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, logo, "  ", strings.Join(tabs, ""))

	if state.Category == "" {
		return line
	}

	var info []string
	if len(state.Subcategories) > 0 {
		info = append(info, r.renderSubcategories(state))
	}
	info = append(info, r.styles.Dim.Render(fmt.Sprintf("page %d/%d · %s · %d per page",
		state.Page+1, state.TotalPages, plural(state.TotalItems, "item"), state.PageSize)))
	if state.SearchTerm != "" {
		info = append(info, r.styles.Filter.Render(fmt.Sprintf("[Search: %s]", state.SearchTerm)))
	}
	if state.Loading {
		info = append(info, r.styles.StatusLoading.Render("loading…"))
	}
	return line + "\n" + strings.Join(info, "  ")
}

func (r *Renderer) renderSubcategories(state ViewState) string {
	parts := make([]string, 0, len(state.Subcategories))
	for _, sub := range state.Subcategories {
		if sub == state.Subcategory {
			parts = append(parts, r.styles.Highlight.Render(sub))
		} else {
			parts = append(parts, r.styles.Dim.Render(sub))
		}
	}
	return strings.Join(parts, r.styles.Dim.Render(" | "))
}

func (r *Renderer) renderMenu(state ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Dim.Render("Choose a category"))
	b.WriteString("\n\n")
	for i, cat := range domain.Categories {
		cursor := "  "
		label := fmt.Sprintf("%d  %s", i+1, cat)
		if n, ok := state.Counts[cat]; ok {
			label = fmt.Sprintf("%-16s %s", label, r.styles.Dim.Render(fmt.Sprintf("%d", n)))
		}
		if i == state.MenuCursor {
			cursor = r.styles.CardCursor.Render("▶ ")
			label = r.styles.Highlight.Render(label)
		}
		b.WriteString(cursor + label + "\n")
	}
	return b.String()
}

// GridRows returns how many card rows fit on screen for height
func GridRows(height int) int {
	// header, info line, prompt, status and help
	rows := (height - 10) / CardHeight
	if rows < 1 {
		return 1
	}
	return rows
}

func (r *Renderer) renderGrid(state ViewState) string {
	cols := GridColumns(state.Width)
	visible := GridRows(state.Height)
	first := state.RowOffset
	if cursorRow := state.Cursor / cols; cursorRow < first || cursorRow >= first+visible {
		first = max(cursorRow-visible+1, 0)
	}

	var rows []string
	for row := first; row < first+visible; row++ {
		start := row * cols
		if start >= len(state.Items) {
			break
		}
		end := start + cols
		if end > len(state.Items) {
			end = len(state.Items)
		}

		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			ref := state.Refs[i]
			cardState := CardPlain
			if state.Primary != nil && *state.Primary == ref {
				cardState = CardPrimary
			} else if state.Selected[ref] {
				cardState = CardSelected
			}
			gutter := strings.TrimSuffix(strings.Repeat(" \n", CardHeight), "\n")
			if i == state.Cursor {
				gutter = r.styles.CardCursor.Render(strings.TrimSuffix(strings.Repeat("▌\n", CardHeight), "\n"))
			}
			card := r.cards.get(r.styles, ref, state.Items[i], cardState)
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, gutter, card, strings.Repeat(" ", CardGap)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	out := strings.Join(rows, "\n")
	totalRows := (len(state.Items) + cols - 1) / cols
	if first > 0 || first+visible < totalRows {
		out += "\n" + r.styles.Dim.Render(fmt.Sprintf("rows %d-%d of %d", first+1, min(first+visible, totalRows), totalRows))
	}
	return out
}

func (r *Renderer) renderDetail(state ViewState) string {
	d := state.Detail
	rec := d.Record

	row := func(label, value string) string {
		if value == "" {
			value = r.styles.Dim.Render("-")
		}
		return r.styles.DetailLabel.Render(label) + value
	}

	lines := []string{
		r.styles.Title.Render(fmt.Sprintf("%s #%d", d.Ref.Category, d.Ref.ID)),
		"",
		row("Name", rec.Name),
		row("Description", rec.Description),
		row("Subcategory", rec.Subcategory),
	}
	if rec.SpriteCount > 0 {
		lines = append(lines, row("Sprites", fmt.Sprintf("%d", rec.SpriteCount)))
	}
	if len(rec.Flags) > 0 {
		keys := make([]string, 0, len(rec.Flags))
		for k := range rec.Flags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines = append(lines, row("Flags", strings.Join(keys, ", ")))
	}

	prev := r.styles.Dim.Render("[ prev")
	if d.HasPrev {
		prev = r.styles.Highlight.Render("[ prev")
	}
	next := r.styles.Dim.Render("next ]")
	if d.HasNext {
		next = r.styles.Highlight.Render("next ]")
	}
	nav := prev + "   " + next
	if d.Navigating {
		nav += "   " + r.styles.StatusLoading.Render("loading…")
	}
	lines = append(lines, "", nav)

	width := state.Width - 8
	if width > 90 {
		width = 90
	}
	if width < 30 {
		width = 30
	}
	return r.styles.DetailBox.Width(width).Render(strings.Join(lines, "\n"))
}

func (r *Renderer) renderStatus(state ViewState) string {
	var left string
	switch state.StatusKind {
	case StatusError:
		left = r.styles.StatusError.Render(state.StatusMessage)
	case StatusSuccess:
		left = r.styles.StatusSuccess.Render(state.StatusMessage)
	case StatusLoading:
		left = r.styles.StatusLoading.Render(state.StatusMessage)
	default:
		left = state.StatusMessage
	}

	var right []string
	if state.SelectedCount > 0 {
		right = append(right, fmt.Sprintf("%d selected", state.SelectedCount))
	}
	if state.UndoLabel != "" {
		right = append(right, "u: "+state.UndoLabel)
	}
	if state.RedoLabel != "" {
		right = append(right, "ctrl+r: "+state.RedoLabel)
	}
	rightText := r.styles.Dim.Render(strings.Join(right, " · "))

	width := state.Width - 4
	if width <= 0 {
		width = 76
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(rightText)
	if gap < 2 {
		gap = 2
	}
	return r.styles.Status.Render(left + strings.Repeat(" ", gap) + rightText)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
