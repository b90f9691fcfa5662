package selection

import "assetgrip/internal/domain"

// State holds selection state. Selected keeps insertion order.
type State struct {
	Selected []domain.AssetRef
	Primary  *domain.AssetRef
}

// Snapshot is a deep copy of the selection, used as undo/redo payload
type Snapshot struct {
	Selected []domain.AssetRef
	Primary  *domain.AssetRef
}

// Equal compares two snapshots order-sensitively, primary included
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Selected) != len(other.Selected) {
		return false
	}
	for i := range s.Selected {
		if s.Selected[i] != other.Selected[i] {
			return false
		}
	}
	return refsEqual(s.Primary, other.Primary)
}

// Contains reports membership of ref
func (s Snapshot) Contains(ref domain.AssetRef) bool {
	return indexOf(s.Selected, ref) >= 0
}

// Diff describes what a mutation changed, for presentation subscribers
type Diff struct {
	Added          []domain.AssetRef
	Removed        []domain.AssetRef
	PrimaryChanged bool
}

// Empty reports whether nothing changed
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && !d.PrimaryChanged
}

// Compute returns the membership and primary changes from before to after
func Compute(before, after Snapshot) Diff {
	var d Diff
	for _, ref := range after.Selected {
		if !before.Contains(ref) {
			d.Added = append(d.Added, ref)
		}
	}
	for _, ref := range before.Selected {
		if !after.Contains(ref) {
			d.Removed = append(d.Removed, ref)
		}
	}
	d.PrimaryChanged = !refsEqual(before.Primary, after.Primary)
	return d
}

// SelectionChangedEvent is published after every mutation
type SelectionChangedEvent struct {
	Selected []domain.AssetRef
	Primary  *domain.AssetRef
	Diff     Diff
}

func refsEqual(a, b *domain.AssetRef) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func refPtr(ref domain.AssetRef) *domain.AssetRef {
	return &ref
}

func indexOf(refs []domain.AssetRef, ref domain.AssetRef) int {
	for i, r := range refs {
		if r == ref {
			return i
		}
	}
	return -1
}
