package navigation

// State holds the grid cursor and the visible row window
type State struct {
	Cursor      int
	RowOffset   int
	VisibleRows int
	Columns     int
	Count       int
}

// Direction represents movement directions
type Direction string

const (
	DirectionUp       Direction = "up"
	DirectionDown     Direction = "down"
	DirectionLeft     Direction = "left"
	DirectionRight    Direction = "right"
	DirectionPageUp   Direction = "pageup"
	DirectionPageDown Direction = "pagedown"
	DirectionHome     Direction = "home"
	DirectionEnd      Direction = "end"
)

// Event types for navigation changes
type CursorMovedEvent struct {
	OldIndex int
	NewIndex int
}

type ViewportChangedEvent struct {
	RowOffset   int
	VisibleRows int
}
