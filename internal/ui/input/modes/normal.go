package modes

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"assetgrip/internal/domain"
	"assetgrip/internal/ui/input/types"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	key := msg.String()

	// Keys that work everywhere
	switch key {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "q":
		return []types.Action{types.QuitAction{}}, true
	case "?":
		return []types.Action{types.ShowHelpAction{}}, true
	case "t":
		return []types.Action{types.CycleThemeAction{}}, true
	case "1", "2", "3", "4", "5":
		n, _ := strconv.Atoi(key)
		return []types.Action{types.OpenCategoryAction{Category: domain.Categories[n-1]}}, true
	}

	if !ctx.CategoryOpen() {
		return m.handleMenuKey(key, ctx)
	}
	if ctx.InDetail() {
		if actions, ok := m.handleDetailKey(key); ok {
			return actions, true
		}
	}
	return m.handleGridKey(key, ctx)
}

// handleMenuKey drives the category menu shown before any listing is open
func (m *NormalMode) handleMenuKey(key string, ctx types.Context) ([]types.Action, bool) {
	switch key {
	case "up", "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "down", "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "enter":
		idx := ctx.CurrentIndex()
		if idx < 0 || idx >= len(domain.Categories) {
			return nil, true
		}
		return []types.Action{types.OpenCategoryAction{Category: domain.Categories[idx]}}, true
	}
	return nil, false
}

func (m *NormalMode) handleDetailKey(key string) ([]types.Action, bool) {
	switch key {
	case "esc", "enter", "backspace":
		return []types.Action{types.CloseDetailAction{}}, true
	case "[", "left", "h":
		return []types.Action{types.DetailStepAction{Direction: "prev"}}, true
	case "]", "right", "l":
		return []types.Action{types.DetailStepAction{Direction: "next"}}, true
	case "up", "down", "k", "j", "n", "p", "home", "end", "g", "G":
		// the grid is hidden behind the detail pane
		return nil, true
	}
	return nil, false
}

func (m *NormalMode) handleGridKey(key string, ctx types.Context) ([]types.Action, bool) {
	switch key {
	case "up", "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "down", "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "left", "h":
		return []types.Action{types.NavigateAction{Direction: "left"}}, true
	case "right", "l":
		return []types.Action{types.NavigateAction{Direction: "right"}}, true
	case "home", "g":
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	case "end", "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case "n", "pgdown":
		return []types.Action{types.ChangePageAction{Delta: 1}}, true
	case "p", "pgup":
		return []types.Action{types.ChangePageAction{Delta: -1}}, true
	case "tab":
		return []types.Action{types.CycleSubcategoryAction{}}, true
	case "R":
		return []types.Action{types.RefreshAction{}}, true

	case " ":
		if ctx.TotalItems() == 0 {
			return nil, true
		}
		return []types.Action{types.SelectAction{Index: -1}}, true
	case "shift+space", "V":
		if ctx.TotalItems() == 0 {
			return nil, true
		}
		return []types.Action{types.RangeSelectAction{}}, true
	case "a":
		return []types.Action{types.SelectAllAction{}}, true
	case "A":
		return []types.Action{types.DeselectAllAction{}}, true
	case "u":
		return []types.Action{types.UndoAction{}}, true
	case "ctrl+r":
		return []types.Action{types.RedoAction{}}, true

	case "esc":
		switch {
		case ctx.HasSelection():
			return []types.Action{types.DeselectAllAction{}}, true
		case ctx.SearchTerm() != "":
			return []types.Action{types.ClearSearchAction{}}, true
		default:
			return []types.Action{types.BackAction{}}, true
		}

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.SearchTerm()}}, true
	case "S":
		return []types.Action{types.ChangeModeAction{Mode: types.ModePageSize, Data: strconv.Itoa(ctx.PageSize())}}, true

	case "enter":
		if ctx.TotalItems() == 0 {
			return nil, true
		}
		return []types.Action{types.OpenDetailAction{}}, true
	case "r":
		if ctx.TotalItems() == 0 {
			return nil, true
		}
		return []types.Action{types.ShowRecordAction{}}, true

	case "d":
		if !ctx.HasSelection() {
			return []types.Action{types.StatusAction{Message: "No assets selected"}}, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeDeleteConfirm}}, true
	case "y":
		if !ctx.HasSelection() {
			return []types.Action{types.StatusAction{Message: "No assets selected"}}, true
		}
		return []types.Action{types.DuplicateAction{}}, true
	case "c":
		if !ctx.HasSelection() {
			return []types.Action{types.StatusAction{Message: "Select an appearance to copy flags from"}}, true
		}
		return []types.Action{types.CopyFlagsAction{}}, true
	case "v":
		if !ctx.HasSelection() {
			return []types.Action{types.StatusAction{Message: "No assets selected"}}, true
		}
		return []types.Action{types.PasteFlagsAction{}}, true
	case "e":
		if !ctx.HasSelection() {
			return []types.Action{types.StatusAction{Message: "No assets selected"}}, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeExport, Data: ctx.ExportDir()}}, true
	}

	return nil, false
}
