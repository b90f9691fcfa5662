package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"assetgrip/internal/ui/input/types"
)

type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

// ExportMode asks for the directory the selection is exported to
type ExportMode struct {
	TextInputMode
}

func NewExportMode(ti *textinput.Model) *ExportMode {
	return &ExportMode{
		TextInputMode: NewTextInputMode(types.ModeExport, "export", "Export to: ", ti),
	}
}

// PageSizeMode asks for a new number of items per page
type PageSizeMode struct {
	TextInputMode
}

func NewPageSizeMode(ti *textinput.Model) *PageSizeMode {
	return &PageSizeMode{
		TextInputMode: NewTextInputMode(types.ModePageSize, "page-size", "Items per page: ", ti),
	}
}
