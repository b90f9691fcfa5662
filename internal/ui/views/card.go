package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"assetgrip/internal/domain"
)

// Card geometry in terminal cells
const (
	CardWidth  = 24
	CardHeight = 3
	CardGap    = 1
)

// CardState is the selection styling of one card
type CardState int

const (
	CardPlain CardState = iota
	CardSelected
	CardPrimary
)

// GridColumns returns how many cards fit in width
func GridColumns(width int) int {
	// Main style padding plus the cursor gutter
	usable := width - 4
	cols := usable / (CardWidth + CardGap + 1)
	if cols < 1 {
		return 1
	}
	return cols
}

// CardCache keeps rendered cards so a selection change only restyles the
// cards whose state actually changed
type CardCache struct {
	entries map[domain.AssetRef]cachedCard
	renders int
}

type cachedCard struct {
	state CardState
	item  domain.AssetSummary
	out   string
}

func NewCardCache() *CardCache {
	return &CardCache{entries: make(map[domain.AssetRef]cachedCard)}
}

// Invalidate drops the cached rendering of refs
func (c *CardCache) Invalidate(refs ...domain.AssetRef) {
	for _, ref := range refs {
		delete(c.entries, ref)
	}
}

// Reset drops every cached card
func (c *CardCache) Reset() {
	c.entries = make(map[domain.AssetRef]cachedCard)
}

// Len is the number of cached cards
func (c *CardCache) Len() int {
	return len(c.entries)
}

// Renders counts how many cards were rendered rather than served from cache
func (c *CardCache) Renders() int {
	return c.renders
}

func (c *CardCache) get(styles *Styles, ref domain.AssetRef, item domain.AssetSummary, state CardState) string {
	if e, ok := c.entries[ref]; ok && e.state == state && e.item == item {
		return e.out
	}
	out := renderCard(styles, ref, item, state)
	c.entries[ref] = cachedCard{state: state, item: item, out: out}
	c.renders++
	return out
}

func renderCard(styles *Styles, ref domain.AssetRef, item domain.AssetSummary, state CardState) string {
	style := styles.Card
	marker := " "
	switch state {
	case CardSelected:
		style = styles.CardSelected
		marker = "✓"
	case CardPrimary:
		style = styles.CardPrimary
		marker = "●"
	}

	inner := CardWidth - 2
	name := item.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", strings.TrimSuffix(ref.Category, "s"), item.ID)
	}
	lines := []string{
		fmt.Sprintf("%s %s", marker, styles.CardID.Render(fmt.Sprintf("#%d", item.ID))),
		truncate(name, inner),
		truncate(item.Kind, inner),
	}
	return style.Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 || len(r) <= 1 {
		return "…"
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
