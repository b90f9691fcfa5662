package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetgrip/internal/domain"
	"assetgrip/internal/ui/input/types"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func gridContext() *ModelContext {
	return &ModelContext{Index: 2, Items: 10, Open: true, Size: 50, ExportTo: "/tmp/out"}
}

func TestMenuKeys(t *testing.T) {
	h := New()
	ctx := &ModelContext{Index: 1, Items: len(domain.Categories)}

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.OpenCategoryAction{Category: domain.CategoryOutfits}, actions[0])

	actions, _ = h.HandleKey(runes("5"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.OpenCategoryAction{Category: domain.CategorySounds}, actions[0])

	actions, _ = h.HandleKey(runes("j"), ctx)
	assert.Equal(t, []types.Action{types.NavigateAction{Direction: "down"}}, actions)
}

func TestGridKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want types.Action
	}{
		{"toggle", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, types.SelectAction{Index: -1}},
		{"range", runes("V"), types.RangeSelectAction{}},
		{"next page", runes("n"), types.ChangePageAction{Delta: 1}},
		{"prev page", tea.KeyMsg{Type: tea.KeyPgUp}, types.ChangePageAction{Delta: -1}},
		{"undo", runes("u"), types.UndoAction{}},
		{"redo", tea.KeyMsg{Type: tea.KeyCtrlR}, types.RedoAction{}},
		{"detail", tea.KeyMsg{Type: tea.KeyEnter}, types.OpenDetailAction{}},
		{"subcategory", tea.KeyMsg{Type: tea.KeyTab}, types.CycleSubcategoryAction{}},
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, types.BackAction{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, _ := New().HandleKey(tt.msg, gridContext())
			require.Len(t, actions, 1)
			assert.Equal(t, tt.want, actions[0])
		})
	}
}

func TestEscapePrefersSelectionThenSearch(t *testing.T) {
	h := New()
	esc := tea.KeyMsg{Type: tea.KeyEsc}

	ctx := gridContext()
	ctx.Selected = 2
	ctx.Search = "sword"
	actions, _ := h.HandleKey(esc, ctx)
	assert.Equal(t, []types.Action{types.DeselectAllAction{}}, actions)

	ctx.Selected = 0
	actions, _ = h.HandleKey(esc, ctx)
	assert.Equal(t, []types.Action{types.ClearSearchAction{}}, actions)
}

func TestBatchKeysNeedSelection(t *testing.T) {
	h := New()
	actions, _ := h.HandleKey(runes("d"), gridContext())
	assert.Equal(t, []types.Action{types.StatusAction{Message: "No assets selected"}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestDeleteConfirmFlow(t *testing.T) {
	h := New()
	ctx := gridContext()
	ctx.Selected = 3

	_, _ = h.HandleKey(runes("d"), ctx)
	require.Equal(t, types.ModeDeleteConfirm, h.CurrentMode())
	assert.Equal(t, 3, h.PendingDeleteCount())

	// unrelated keys are swallowed
	actions, _ := h.HandleKey(runes("j"), ctx)
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeDeleteConfirm, h.CurrentMode())

	actions, _ = h.HandleKey(runes("y"), ctx)
	assert.Equal(t, []types.Action{types.DeleteAction{}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Equal(t, 0, h.PendingDeleteCount())
}

func TestDeleteConfirmCancel(t *testing.T) {
	h := New()
	ctx := gridContext()
	ctx.Selected = 1

	_, _ = h.HandleKey(runes("d"), ctx)
	actions, _ := h.HandleKey(runes("n"), ctx)
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestSearchModePrefillAndSubmit(t *testing.T) {
	h := New()
	ctx := gridContext()
	ctx.Search = "gold"

	_, cmd := h.HandleKey(runes("/"), ctx)
	assert.NotNil(t, cmd)
	require.Equal(t, types.ModeSearch, h.CurrentMode())
	assert.Equal(t, "Search: ", h.Prompt())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "gold", h.TextInput().Value())

	actions, _ := h.HandleKey(runes("s"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "golds"}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Equal(t, []types.Action{types.SubmitTextAction{Text: "golds", Mode: types.ModeSearch}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestExportModeCancel(t *testing.T) {
	h := New()
	ctx := gridContext()
	ctx.Selected = 1

	_, _ = h.HandleKey(runes("e"), ctx)
	require.Equal(t, types.ModeExport, h.CurrentMode())
	assert.Equal(t, "/tmp/out", h.TextInput().Value())

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.CancelTextAction{}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestDetailKeys(t *testing.T) {
	h := New()
	ctx := gridContext()
	ctx.Detail = true

	actions, _ := h.HandleKey(runes("]"), ctx)
	assert.Equal(t, []types.Action{types.DetailStepAction{Direction: "next"}}, actions)

	actions, _ = h.HandleKey(runes("j"), ctx)
	assert.Empty(t, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.CloseDetailAction{}}, actions)
}
