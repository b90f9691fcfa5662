package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetgrip/internal/backend"
	"assetgrip/internal/domain"
	"assetgrip/internal/history"
	"assetgrip/internal/ui/services/selection"
)

func obj(id int) domain.AssetRef {
	return domain.AssetRef{Category: domain.CategoryObjects, ID: id}
}

func newContext(t *testing.T, ids ...int) (*CommandContext, *backend.MemoryCatalog, *selection.Service) {
	t.Helper()
	mem := backend.NewMemoryCatalog()
	for _, id := range ids {
		mem.AddAppearances(domain.CategoryObjects, domain.Appearance{
			ID:    id,
			Name:  "item",
			Flags: map[string]any{"id": id},
		})
	}
	sel := selection.NewService(nil, history.NewStack(0))
	return &CommandContext{Backend: backend.NewClient(mem), Selection: sel}, mem, sel
}

func TestDeleteCommand(t *testing.T) {
	cctx, mem, sel := newContext(t, 1, 2, 3)
	for _, id := range []int{1, 2} {
		sel.Toggle(obj(id))
	}

	msg, err := NewDeleteCommand(cctx, sel.Selection()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.AssetRef{obj(1), obj(2)}, msg.Done)
	assert.Equal(t, "Deleted 2 appearances", msg.Message)
	assert.False(t, mem.Has(obj(1)))
	assert.False(t, mem.Has(obj(2)))
	assert.True(t, mem.Has(obj(3)))
	assert.Equal(t, 1, mem.Saves())
	assert.Equal(t, 0, sel.Count())
}

func TestUndoAfterDeleteKeepsDeletedOut(t *testing.T) {
	cctx, mem, _ := newContext(t, 1, 2, 3)
	stack := history.NewStack(0)
	sel := selection.NewService(nil, stack)
	cctx.Selection = sel
	ctx := context.Background()

	sel.Toggle(obj(1))
	sel.Toggle(obj(2))
	_, err := NewDeleteCommand(cctx, sel.Selection()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sel.Count())

	replayed, err := stack.Undo(ctx)
	require.NoError(t, err)
	require.True(t, replayed)
	assert.Empty(t, sel.Selection())

	sel.Toggle(obj(3))
	_, err = NewDeleteCommand(cctx, sel.Selection()).Run(ctx)
	require.NoError(t, err)
	assert.False(t, mem.Has(obj(3)))
}

func TestDeleteCommandAbortsMidway(t *testing.T) {
	cctx, mem, sel := newContext(t, 1, 3)
	targets := []domain.AssetRef{obj(1), obj(2), obj(3)}
	for _, ref := range targets {
		sel.Toggle(ref)
	}

	msg, err := NewDeleteCommand(cctx, targets).Run(context.Background())
	require.Error(t, err)

	var berr *BatchError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, []domain.AssetRef{obj(1)}, berr.Done)
	assert.Equal(t, obj(2), berr.Failed)
	var backendErr *backend.Error
	assert.True(t, errors.As(err, &backendErr), "backend error stays reachable")

	assert.Equal(t, []domain.AssetRef{obj(1)}, msg.Done)
	assert.False(t, mem.Has(obj(1)), "earlier deletions are not rolled back")
	assert.True(t, mem.Has(obj(3)), "later targets are untouched")
	assert.Equal(t, 0, mem.Saves())
	assert.Equal(t, []domain.AssetRef{obj(2), obj(3)}, sel.Selection())
}

func TestDeleteSkipsSounds(t *testing.T) {
	cctx, mem, _ := newContext(t, 1)
	cmd := NewDeleteCommand(cctx, []domain.AssetRef{
		{Category: domain.CategorySounds, ID: 1},
		obj(1),
		obj(1),
	})
	assert.Equal(t, []domain.AssetRef{obj(1)}, cmd.Targets())

	msg, err := cmd.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Appearance #1 deleted", msg.Message)
	assert.Equal(t, 1, mem.Calls(backend.CmdDeleteAppearance))

	_, err = NewDeleteCommand(cctx, []domain.AssetRef{{Category: domain.CategorySounds, ID: 1}}).Run(context.Background())
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestDuplicateCommand(t *testing.T) {
	cctx, mem, _ := newContext(t, 1, 2)

	msg, err := NewDuplicateCommand(cctx, []domain.AssetRef{obj(1), obj(2)}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.AssetRef{obj(3), obj(4)}, msg.Created)
	assert.True(t, mem.Has(obj(4)))
	assert.Equal(t, 1, mem.Saves())

	msg, err = NewDuplicateCommand(cctx, []domain.AssetRef{obj(1)}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Appearance duplicated as #5", msg.Message)
}

func TestCopyPasteFlags(t *testing.T) {
	cctx, mem, _ := newContext(t, 1, 2, 3)
	ctx := context.Background()

	_, err := NewCopyFlagsCommand(cctx, nil).Run(ctx)
	assert.ErrorIs(t, err, ErrNothingSelected)

	primary := obj(1)
	msg, err := NewCopyFlagsCommand(cctx, &primary).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Flags copied from #1", msg.Message)

	msg, err = NewPasteFlagsCommand(cctx, []domain.AssetRef{obj(2), obj(3)}).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Flags applied to 2 appearances", msg.Message)
	assert.Equal(t, 1, mem.Saves())

	client := backend.NewClient(mem)
	app, err := client.GetCompleteAppearance(ctx, obj(3))
	require.NoError(t, err)
	assert.Equal(t, float64(1), app.Flags["id"])
}

func TestPasteFlagsFailureSkipsSave(t *testing.T) {
	cctx, mem, _ := newContext(t, 1, 2)
	mem.FailOn(backend.CmdPasteAppearanceFlags, errors.New("no clipboard"))

	msg, err := NewPasteFlagsCommand(cctx, []domain.AssetRef{obj(1), obj(2)}).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, msg.Done)
	assert.Equal(t, "Failed to paste flags", msg.Message)
	assert.Equal(t, 0, mem.Saves())
}

func TestSaveFailureReported(t *testing.T) {
	cctx, mem, _ := newContext(t, 1)
	mem.FailOn(backend.CmdSaveAppearancesFile, errors.New("read-only"))

	msg, err := NewDuplicateCommand(cctx, []domain.AssetRef{obj(1)}).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
	assert.Equal(t, "Failed to save appearances", msg.Message)
	assert.Len(t, msg.Created, 1)
}

func TestExportCommand(t *testing.T) {
	cctx, _, _ := newContext(t, 7, 8)
	dir := filepath.Join(t.TempDir(), "export")

	cmd := NewExportCommand(cctx, []domain.AssetRef{obj(7), obj(8)}, dir)
	cmd.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	msg, err := cmd.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, msg.Done, 2)

	for _, ref := range msg.Done {
		_, err := os.Stat(filepath.Join(dir, ExportFileName(ref)))
		assert.NoError(t, err)
	}

	m, err := ReadManifest(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	assert.Equal(t, 2, m.Count)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), m.ExportedAt)
	assert.Equal(t, ManifestEntry{Category: domain.CategoryObjects, ID: 7, Name: "item", File: "objects_7.json"}, m.Assets[0])
}

func TestExportPartialManifest(t *testing.T) {
	cctx, _, _ := newContext(t, 7)
	dir := t.TempDir()

	_, err := NewExportCommand(cctx, []domain.AssetRef{obj(7), obj(9)}, dir).Run(context.Background())
	var berr *BatchError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, obj(9), berr.Failed)

	m, err := ReadManifest(filepath.Join(dir, ManifestName))
	require.NoError(t, err)
	require.Len(t, m.Assets, 1)
	assert.Equal(t, 7, m.Assets[0].ID)
}

func TestExecuteDeliversMessage(t *testing.T) {
	cctx, _, _ := newContext(t, 1)
	exec := NewExecutor(cctx.Backend, cctx.Selection, nil)

	cmd := exec.ExecuteDelete([]domain.AssetRef{obj(5)})
	require.NotNil(t, cmd)
	msg, ok := cmd().(BatchCompletedMsg)
	require.True(t, ok)
	assert.Equal(t, "delete", msg.Op)
	require.Error(t, msg.Err)
}
