package input

// ModelContext implements the Context interface for the input handler. The
// model fills it from its services before each key is dispatched.
type ModelContext struct {
	Index    int
	Items    int
	Selected int
	Open     bool
	Detail   bool
	Search   string
	Size     int
	ExportTo string
}

// CurrentIndex returns the cursor position in the grid or menu
func (c *ModelContext) CurrentIndex() int {
	return c.Index
}

// TotalItems returns the number of rendered cards, or menu entries when no
// category is open
func (c *ModelContext) TotalItems() int {
	return c.Items
}

// HasSelection returns true if any items are selected
func (c *ModelContext) HasSelection() bool {
	return c.Selected > 0
}

// SelectedCount returns the number of selected items
func (c *ModelContext) SelectedCount() int {
	return c.Selected
}

func (c *ModelContext) CategoryOpen() bool {
	return c.Open
}

func (c *ModelContext) InDetail() bool {
	return c.Detail
}

func (c *ModelContext) SearchTerm() string {
	return c.Search
}

func (c *ModelContext) PageSize() int {
	return c.Size
}

func (c *ModelContext) ExportDir() string {
	return c.ExportTo
}
