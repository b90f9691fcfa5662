package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "left", "right", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

type OpenCategoryAction struct {
	Category string
}

func (a OpenCategoryAction) Type() string { return "open_category" }

type ChangePageAction struct {
	Delta int
}

func (a ChangePageAction) Type() string { return "change_page" }

type CycleSubcategoryAction struct{}

func (a CycleSubcategoryAction) Type() string { return "cycle_subcategory" }

// BackAction leaves the current listing for the category menu
type BackAction struct{}

func (a BackAction) Type() string { return "back" }

type ClearSearchAction struct{}

func (a ClearSearchAction) Type() string { return "clear_search" }

type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

// Selection actions
type SelectAction struct {
	Index int // -1 for current
}

func (a SelectAction) Type() string { return "select" }

type RangeSelectAction struct{}

func (a RangeSelectAction) Type() string { return "range_select" }

type SelectAllAction struct{}

func (a SelectAllAction) Type() string { return "select_all" }

type DeselectAllAction struct{}

func (a DeselectAllAction) Type() string { return "deselect_all" }

type UndoAction struct{}

func (a UndoAction) Type() string { return "undo" }

type RedoAction struct{}

func (a RedoAction) Type() string { return "redo" }

// Detail actions
type OpenDetailAction struct{}

func (a OpenDetailAction) Type() string { return "open_detail" }

type CloseDetailAction struct{}

func (a CloseDetailAction) Type() string { return "close_detail" }

type DetailStepAction struct {
	Direction string // "prev" or "next"
}

func (a DetailStepAction) Type() string { return "detail_step" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Batch actions on the selection
type DeleteAction struct{}

func (a DeleteAction) Type() string { return "delete" }

type DuplicateAction struct{}

func (a DuplicateAction) Type() string { return "duplicate" }

type CopyFlagsAction struct{}

func (a CopyFlagsAction) Type() string { return "copy_flags" }

type PasteFlagsAction struct{}

func (a PasteFlagsAction) Type() string { return "paste_flags" }

// Other actions
type ShowHelpAction struct{}

func (a ShowHelpAction) Type() string { return "show_help" }

type ShowRecordAction struct{}

func (a ShowRecordAction) Type() string { return "show_record" }

type CycleThemeAction struct{}

func (a CycleThemeAction) Type() string { return "cycle_theme" }

// StatusAction shows a transient message without touching state
type StatusAction struct {
	Message string
}

func (a StatusAction) Type() string { return "status" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
