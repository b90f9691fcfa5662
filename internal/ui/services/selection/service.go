package selection

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"assetgrip/internal/domain"
	"assetgrip/internal/history"
	"assetgrip/internal/logger"
	"assetgrip/internal/ui/services/events"
)

// Service owns the ordered multi-selection and its primary pointer.
// Mutations publish a SelectionChangedEvent on the UI bus after the lock is
// released, so subscribers may query the service.
type Service struct {
	mu       sync.Mutex
	state    *State
	bus      events.EventBus
	history  history.Recorder
	applying bool
	// refs removed from the catalog; replayed snapshots skip them
	gone map[domain.AssetRef]bool
}

// NewService creates a new selection service. history may be nil when
// changes should not be undoable.
func NewService(bus events.EventBus, rec history.Recorder) *Service {
	if bus == nil {
		bus = &events.NullBus{}
	}
	return &Service{
		state:   &State{},
		bus:     bus,
		history: rec,
		gone:    make(map[domain.AssetRef]bool),
	}
}

// IsSelected checks if ref is selected
func (s *Service) IsSelected(ref domain.AssetRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.state.Selected, ref) >= 0
}

// SetSelection adds or removes ref. Selecting an already selected ref only
// moves the primary pointer. Deselecting an absent ref does nothing.
func (s *Service) SetSelection(ref domain.AssetRef, selected bool, recordHistory bool) {
	s.mu.Lock()
	if selected {
		delete(s.gone, ref)
	}
	before := s.snapshotLocked()
	idx := indexOf(s.state.Selected, ref)

	switch {
	case selected && idx < 0:
		s.state.Selected = append(s.state.Selected, ref)
		s.state.Primary = refPtr(ref)
	case selected:
		s.state.Primary = refPtr(ref)
	case idx >= 0:
		s.removeAtLocked(idx)
	default:
		s.mu.Unlock()
		return
	}
	after := s.snapshotLocked()
	s.mu.Unlock()

	if recordHistory && !before.Equal(after) {
		verb := "Select"
		if !selected {
			verb = "Deselect"
		}
		s.record(fmt.Sprintf("%s %s", verb, ref), before, after)
	}
	s.publish(before, after)
}

// Toggle flips the selection state of ref, recording history
func (s *Service) Toggle(ref domain.AssetRef) {
	s.SetSelection(ref, !s.IsSelected(ref), true)
}

// Clear empties the selection as a single undoable step
func (s *Service) Clear() {
	s.clear(true)
}

// Reset empties the selection without recording history. Used on session
// boundaries such as switching category.
func (s *Service) Reset() {
	s.mu.Lock()
	s.gone = make(map[domain.AssetRef]bool)
	s.mu.Unlock()
	s.clear(false)
}

func (s *Service) clear(recordHistory bool) {
	s.mu.Lock()
	if len(s.state.Selected) == 0 {
		s.mu.Unlock()
		return
	}
	before := s.snapshotLocked()
	s.state.Selected = nil
	s.state.Primary = nil
	after := s.snapshotLocked()
	s.mu.Unlock()

	if recordHistory {
		s.record("Clear selection", before, after)
	}
	s.publish(before, after)
}

// Remove drops ref after its asset was deleted from the catalog. No history
// entry is recorded, and undo or redo of earlier entries will not bring the
// ref back until it is explicitly selected again.
func (s *Service) Remove(ref domain.AssetRef) {
	s.mu.Lock()
	s.gone[ref] = true
	idx := indexOf(s.state.Selected, ref)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	before := s.snapshotLocked()
	s.removeAtLocked(idx)
	after := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(before, after)
}

// SelectRange grows the selection to span from the primary to target over
// the rendered list. Items in the span are force-selected, never toggled.
// Without a usable anchor it falls back to toggling target.
func (s *Service) SelectRange(target domain.AssetRef, rendered []domain.AssetRef) {
	primary := s.Primary()
	if primary == nil || primary.Category != target.Category {
		s.Toggle(target)
		return
	}
	anchor := indexOf(rendered, *primary)
	end := indexOf(rendered, target)
	if anchor < 0 || end < 0 {
		s.Toggle(target)
		return
	}
	start := anchor
	if start > end {
		start, end = end, start
	}

	s.mu.Lock()
	before := s.snapshotLocked()
	for _, ref := range rendered[start : end+1] {
		delete(s.gone, ref)
		if indexOf(s.state.Selected, ref) < 0 {
			s.state.Selected = append(s.state.Selected, ref)
		}
	}
	s.state.Primary = refPtr(target)
	after := s.snapshotLocked()
	s.mu.Unlock()

	if !before.Equal(after) {
		s.record(fmt.Sprintf("Select range to %s", target), before, after)
	}
	s.publish(before, after)
}

// SelectAll selects every rendered item as one undoable step
func (s *Service) SelectAll(rendered []domain.AssetRef) {
	if len(rendered) == 0 {
		return
	}

	s.mu.Lock()
	before := s.snapshotLocked()
	for _, ref := range rendered {
		delete(s.gone, ref)
		if indexOf(s.state.Selected, ref) < 0 {
			s.state.Selected = append(s.state.Selected, ref)
		}
	}
	s.state.Primary = refPtr(rendered[len(rendered)-1])
	after := s.snapshotLocked()
	s.mu.Unlock()

	if !before.Equal(after) {
		s.record(fmt.Sprintf("Select %d items", len(rendered)), before, after)
	}
	s.publish(before, after)
}

// Selection returns a copy of the selected refs in insertion order
func (s *Service) Selection() []domain.AssetRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.AssetRef(nil), s.state.Selected...)
}

// Primary returns a copy of the primary selection, or nil
func (s *Service) Primary() *domain.AssetRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Primary
}

// Snapshot returns a deep copy of the current state
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Count returns the number of selected items
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Selected)
}

// HasSelection returns true if anything is selected
func (s *Service) HasSelection() bool {
	return s.Count() > 0
}

// applySnapshot replaces the state without recording history
func (s *Service) applySnapshot(target Snapshot) {
	s.mu.Lock()
	s.applying = true
	before := s.snapshotLocked()
	s.state.Selected = s.state.Selected[:0:0]
	for _, ref := range target.Selected {
		if !s.gone[ref] {
			s.state.Selected = append(s.state.Selected, ref)
		}
	}
	s.state.Primary = nil
	if target.Primary != nil {
		s.state.Primary = refPtr(*target.Primary)
		if s.gone[*target.Primary] {
			s.state.Primary = s.lastLocked()
		}
	}
	after := s.snapshotLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.applying = false
		s.mu.Unlock()
	}()
	s.publish(before, after)
}

func (s *Service) record(description string, before, after Snapshot) {
	if s.history == nil {
		return
	}
	s.mu.Lock()
	applying := s.applying
	s.mu.Unlock()
	if applying {
		return
	}

	s.history.Record(history.Entry{
		Description: description,
		Undo: func(context.Context) error {
			s.applySnapshot(before)
			return nil
		},
		Redo: func(context.Context) error {
			s.applySnapshot(after)
			return nil
		},
	})
}

func (s *Service) publish(before, after Snapshot) {
	diff := Compute(before, after)
	logger.Debug("selection changed",
		zap.Int("selected", len(after.Selected)),
		zap.Int("added", len(diff.Added)),
		zap.Int("removed", len(diff.Removed)))

	s.bus.Publish(SelectionChangedEvent{
		Selected: after.Selected,
		Primary:  after.Primary,
		Diff:     diff,
	})
}

// removeAtLocked removes the element at idx and reassigns the primary to
// the last remaining element when the removed one was primary.
func (s *Service) removeAtLocked(idx int) {
	removed := s.state.Selected[idx]
	s.state.Selected = append(s.state.Selected[:idx:idx], s.state.Selected[idx+1:]...)
	if s.state.Primary != nil && *s.state.Primary == removed {
		s.state.Primary = s.lastLocked()
	}
}

// snapshotLocked copies the state, healing a primary that is not a member
func (s *Service) snapshotLocked() Snapshot {
	snap := Snapshot{Selected: append([]domain.AssetRef(nil), s.state.Selected...)}
	if s.state.Primary != nil {
		if indexOf(s.state.Selected, *s.state.Primary) >= 0 {
			snap.Primary = refPtr(*s.state.Primary)
		} else {
			s.state.Primary = s.lastLocked()
			snap.Primary = s.lastLocked()
		}
	}
	return snap
}

func (s *Service) lastLocked() *domain.AssetRef {
	if len(s.state.Selected) == 0 {
		return nil
	}
	return refPtr(s.state.Selected[len(s.state.Selected)-1])
}
