// Package history is a linear undo/redo stack for any subsystem that can
// express its changes as a pair of closures.
package history

import (
	"context"
	"sync"
)

// DefaultLimit caps each of the undo and redo stacks
const DefaultLimit = 100

// Entry is one undoable action. Undo and Redo re-apply the captured
// before/after state; a nil callback is a no-op.
type Entry struct {
	Description string
	Undo        func(ctx context.Context) error
	Redo        func(ctx context.Context) error
}

// Recorder is what subsystems need to push their actions
type Recorder interface {
	Record(entry Entry)
}

// Stack holds the undo and redo sequences.
//
// A replay (Undo or Redo) marks the stack as performing for the duration of
// the callback. While performing, Record is dropped, which keeps a callback
// that re-applies state through a recording path from polluting history,
// and further Undo/Redo calls are dropped rather than queued.
type Stack struct {
	mu         sync.Mutex
	undo       []Entry
	redo       []Entry
	limit      int
	performing bool
}

// NewStack creates a stack capped at limit entries per side.
// A non-positive limit uses DefaultLimit.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Record appends entry to the undo stack and discards the redo stack
func (s *Stack) Record(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.performing {
		return
	}
	s.undo = s.pushCapped(s.undo, entry)
	s.redo = nil
}

// Undo reverts the most recent entry. It reports whether an entry was
// replayed. When the callback fails the entry stays on the undo stack so the
// user can retry, and the error is returned.
func (s *Stack) Undo(ctx context.Context) (bool, error) {
	return s.replay(ctx, false)
}

// Redo re-applies the most recently undone entry. Failure semantics mirror Undo.
func (s *Stack) Redo(ctx context.Context) (bool, error) {
	return s.replay(ctx, true)
}

// Clear empties both stacks
func (s *Stack) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = nil
	s.redo = nil
}

// CanUndo reports whether Undo would replay something
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.performing && len(s.undo) > 0
}

// CanRedo reports whether Redo would replay something
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.performing && len(s.redo) > 0
}

// Len returns the sizes of the undo and redo stacks
func (s *Stack) Len() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo), len(s.redo)
}

// IsPerforming reports whether a replay is in flight
func (s *Stack) IsPerforming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.performing
}

// PeekUndoDescription returns the description of the next undo, if any
func (s *Stack) PeekUndoDescription() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return "", false
	}
	return s.undo[len(s.undo)-1].Description, true
}

// PeekRedoDescription returns the description of the next redo, if any
func (s *Stack) PeekRedoDescription() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redo) == 0 {
		return "", false
	}
	return s.redo[len(s.redo)-1].Description, true
}

func (s *Stack) replay(ctx context.Context, forward bool) (replayed bool, err error) {
	s.mu.Lock()
	from, to := &s.undo, &s.redo
	if forward {
		from, to = &s.redo, &s.undo
	}
	if s.performing || len(*from) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	entry := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]
	s.performing = true
	s.mu.Unlock()

	succeeded := false
	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if succeeded {
			*to = s.pushCapped(*to, entry)
		} else {
			*from = s.pushCapped(*from, entry)
		}
		s.performing = false
	}()

	apply := entry.Undo
	if forward {
		apply = entry.Redo
	}
	if apply != nil {
		if err := apply(ctx); err != nil {
			return true, err
		}
	}
	succeeded = true
	return true, nil
}

// pushCapped appends entry and evicts the oldest entries beyond the limit.
// Callers hold s.mu.
func (s *Stack) pushCapped(stack []Entry, entry Entry) []Entry {
	stack = append(stack, entry)
	if over := len(stack) - s.limit; over > 0 {
		stack = append(stack[:0:0], stack[over:]...)
	}
	return stack
}
