package ui

import (
	"assetgrip/internal/domain"
	"assetgrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// catalogMsg is the result of a browse operation run off the update loop
type catalogMsg struct {
	op      string
	changed bool
	err     error
}

// subcategoriesMsg carries the subcategory list of an opened category
type subcategoriesMsg struct {
	category string
	items    []domain.Subcategory
	err      error
}

// countsMsg carries per-category totals
type countsMsg struct {
	counts map[string]int
	err    error
}

// detailMsg is the result of opening an asset or stepping to a neighbour
type detailMsg struct {
	moved bool
	err   error
}

// pagerMsg reports that an external pager returned
type pagerMsg struct {
	what string
	err  error
}

// clearStatusMsg clears the status line if nothing newer replaced it
type clearStatusMsg struct {
	seq int
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
