package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap documents the bindings handled by the input modes. It feeds the
// footer help line and the help pager.
type keyMap struct {
	Categories key.Binding
	Move       key.Binding
	Page       key.Binding
	Subcat     key.Binding
	Search     key.Binding
	PageSize   key.Binding
	Refresh    key.Binding

	Toggle    key.Binding
	Range     key.Binding
	SelectAll key.Binding
	ClearAll  key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Back      key.Binding

	Detail   key.Binding
	PrevNext key.Binding
	Record   key.Binding

	Delete    key.Binding
	Duplicate key.Binding
	CopyFlags key.Binding
	Paste     key.Binding
	Export    key.Binding

	Theme key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Categories: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "open category")),
		Move:       key.NewBinding(key.WithKeys("up", "down", "left", "right", "h", "j", "k", "l"), key.WithHelp("←↓↑→/hjkl", "move")),
		Page:       key.NewBinding(key.WithKeys("n", "p", "pgdown", "pgup"), key.WithHelp("n/p", "next/prev page")),
		Subcat:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next subcategory")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		PageSize:   key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "items per page")),
		Refresh:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload page")),

		Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle selection")),
		Range:     key.NewBinding(key.WithKeys("shift+space", "V"), key.WithHelp("V", "select range")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select page")),
		ClearAll:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "clear selection")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "redo")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear/back")),

		Detail:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		PrevNext: key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "prev/next asset")),
		Record:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "raw record")),

		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Duplicate: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "duplicate")),
		CopyFlags: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy flags")),
		Paste:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "paste flags")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),

		Theme: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Categories, k.Toggle, k.Detail, k.Search, k.Undo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Categories, k.Move, k.Page, k.Subcat, k.Search, k.PageSize, k.Refresh},
		{k.Toggle, k.Range, k.SelectAll, k.ClearAll, k.Undo, k.Redo, k.Back},
		{k.Detail, k.PrevNext, k.Record},
		{k.Delete, k.Duplicate, k.CopyFlags, k.Paste, k.Export},
		{k.Theme, k.Help, k.Quit},
	}
}

// sectionTitles names the FullHelp columns in the help pager
var sectionTitles = []string{"Browsing", "Selection", "Details", "Editing", "Other"}
