package navigation

import (
	"sync"

	"assetgrip/internal/ui/services/events"
)

// Service moves a cursor over a grid of cards laid out row by row and keeps
// the cursor's row inside the visible window
type Service struct {
	mu    sync.Mutex
	state State
	bus   events.EventBus
}

// NewService creates a new navigation service
func NewService(bus events.EventBus) *Service {
	if bus == nil {
		bus = &events.NullBus{}
	}
	return &Service{
		state: State{
			VisibleRows: 1,
			Columns:     1,
		},
		bus: bus,
	}
}

// State returns a copy of the navigation state
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cursor returns current cursor position
func (s *Service) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Cursor
}

// RowOffset returns the first visible row
func (s *Service) RowOffset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RowOffset
}

// SetGeometry updates the grid shape after a resize
func (s *Service) SetGeometry(columns, visibleRows int) {
	if columns < 1 {
		columns = 1
	}
	if visibleRows < 1 {
		visibleRows = 1
	}
	s.update(func(st *State) {
		st.Columns = columns
		st.VisibleRows = visibleRows
	})
}

// SetCount updates the number of cards and clamps the cursor
func (s *Service) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	s.update(func(st *State) {
		st.Count = count
		st.Cursor = clamp(st.Cursor, count)
	})
}

// Reset moves the cursor back to the first card
func (s *Service) Reset() {
	s.update(func(st *State) {
		st.Cursor = 0
		st.RowOffset = 0
	})
}

// Navigate handles navigation in a direction
func (s *Service) Navigate(direction Direction) {
	s.update(func(st *State) {
		last := st.Count - 1
		if last < 0 {
			return
		}
		switch direction {
		case DirectionUp:
			if st.Cursor-st.Columns >= 0 {
				st.Cursor -= st.Columns
			}
		case DirectionDown:
			if st.Cursor+st.Columns <= last {
				st.Cursor += st.Columns
			} else if st.Cursor/st.Columns < last/st.Columns {
				// partial last row
				st.Cursor = last
			}
		case DirectionLeft:
			if st.Cursor > 0 {
				st.Cursor--
			}
		case DirectionRight:
			if st.Cursor < last {
				st.Cursor++
			}
		case DirectionPageUp:
			st.Cursor = clamp(st.Cursor-st.Columns*st.VisibleRows, st.Count)
		case DirectionPageDown:
			st.Cursor = clamp(st.Cursor+st.Columns*st.VisibleRows, st.Count)
		case DirectionHome:
			st.Cursor = 0
		case DirectionEnd:
			st.Cursor = last
		}
	})
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.update(func(st *State) {
		st.Cursor = clamp(index, st.Count)
	})
}

// update applies fn, keeps the cursor row visible and publishes what changed
// after the lock is released
func (s *Service) update(fn func(*State)) {
	s.mu.Lock()
	before := s.state
	fn(&s.state)
	s.ensureVisibleLocked()
	after := s.state
	s.mu.Unlock()

	if before.Cursor != after.Cursor {
		s.bus.Publish(CursorMovedEvent{OldIndex: before.Cursor, NewIndex: after.Cursor})
	}
	if before.RowOffset != after.RowOffset || before.VisibleRows != after.VisibleRows {
		s.bus.Publish(ViewportChangedEvent{RowOffset: after.RowOffset, VisibleRows: after.VisibleRows})
	}
}

func (s *Service) ensureVisibleLocked() {
	st := &s.state
	row := st.Cursor / st.Columns
	if row < st.RowOffset {
		st.RowOffset = row
	} else if row >= st.RowOffset+st.VisibleRows {
		st.RowOffset = row - st.VisibleRows + 1
	}

	// Do not leave empty rows at the bottom when the grid shrinks
	totalRows := (st.Count + st.Columns - 1) / st.Columns
	if maxOffset := totalRows - st.VisibleRows; st.RowOffset > maxOffset {
		st.RowOffset = max(maxOffset, 0)
	}
}

func clamp(index, count int) int {
	if index >= count {
		index = count - 1
	}
	if index < 0 {
		return 0
	}
	return index
}
