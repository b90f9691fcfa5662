package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"assetgrip/internal/domain"
	"assetgrip/internal/eventbus"
	"assetgrip/internal/logger"
)

// Operation names carried in BatchCompletedMsg.Op
const (
	OpDelete     = "delete"
	OpDuplicate  = "duplicate"
	OpCopyFlags  = "copy flags"
	OpPasteFlags = "paste flags"
	OpExport     = "export"
)

// ErrNothingSelected is returned when a command has no usable targets
var ErrNothingSelected = errors.New("no appearances selected")

// Command represents an executable action
type Command interface {
	Run(ctx context.Context) (BatchCompletedMsg, error)
	Execute() tea.Cmd
}

// Backend is the set of mutating backend calls the commands issue
type Backend interface {
	DeleteAppearance(ctx context.Context, ref domain.AssetRef) error
	DuplicateAppearance(ctx context.Context, ref domain.AssetRef, targetID *int) (domain.Appearance, error)
	CopyAppearanceFlags(ctx context.Context, ref domain.AssetRef) error
	PasteAppearanceFlags(ctx context.Context, ref domain.AssetRef) error
	SaveAppearancesFile(ctx context.Context) error
	ExportAppearanceToJSON(ctx context.Context, ref domain.AssetRef, path string) error
	GetCompleteAppearance(ctx context.Context, ref domain.AssetRef) (domain.Appearance, error)
}

// SelectionEditor is the part of the selection a command may change
type SelectionEditor interface {
	Remove(ref domain.AssetRef)
}

// CommandContext provides context for command execution
type CommandContext struct {
	Backend   Backend
	Selection SelectionEditor
	Bus       eventbus.EventBus
}

// BatchCompletedMsg reports the outcome of a command to the UI
type BatchCompletedMsg struct {
	Op      string
	Done    []domain.AssetRef
	Created []domain.AssetRef
	Message string
	Err     error
}

// BatchError reports a batch that stopped at its first failure. Targets in
// Done were already applied and are not rolled back.
type BatchError struct {
	Op     string
	Done   []domain.AssetRef
	Failed domain.AssetRef
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s stopped at %s after %d done: %v", e.Op, e.Failed, len(e.Done), e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// supportedTargets keeps appearance refs only, in order, without duplicates
func supportedTargets(refs []domain.AssetRef) []domain.AssetRef {
	seen := make(map[domain.AssetRef]bool, len(refs))
	out := make([]domain.AssetRef, 0, len(refs))
	for _, ref := range refs {
		if !domain.IsAppearanceCategory(ref.Category) || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}

// runBatch applies step to each target in order and stops at the first error
func runBatch(ctx context.Context, op string, targets []domain.AssetRef, step func(context.Context, domain.AssetRef) error) ([]domain.AssetRef, error) {
	done := make([]domain.AssetRef, 0, len(targets))
	for _, ref := range targets {
		if err := step(ctx, ref); err != nil {
			logger.Error("batch step failed",
				zap.String("op", op),
				zap.String("asset", ref.String()),
				zap.Int("done", len(done)),
				zap.Error(err))
			return done, &BatchError{Op: op, Done: done, Failed: ref, Err: err}
		}
		done = append(done, ref)
	}
	return done, nil
}

// toCmd runs c in the background and delivers its BatchCompletedMsg
func toCmd(c Command) tea.Cmd {
	return func() tea.Msg {
		msg, err := c.Run(context.Background())
		msg.Err = err
		return msg
	}
}

func countMessage(targets []domain.AssetRef, one, many string) string {
	if len(targets) == 1 {
		return fmt.Sprintf(one, targets[0].ID)
	}
	return fmt.Sprintf(many, len(targets))
}

// DeleteCommand deletes appearances one by one, then saves
type DeleteCommand struct {
	ctx     *CommandContext
	targets []domain.AssetRef
}

// NewDeleteCommand creates a new delete command
func NewDeleteCommand(ctx *CommandContext, targets []domain.AssetRef) *DeleteCommand {
	return &DeleteCommand{ctx: ctx, targets: supportedTargets(targets)}
}

// Targets returns the refs that will be deleted
func (c *DeleteCommand) Targets() []domain.AssetRef {
	return append([]domain.AssetRef(nil), c.targets...)
}

// Run deletes every target. Each deleted ref leaves the selection as it goes.
func (c *DeleteCommand) Run(ctx context.Context) (BatchCompletedMsg, error) {
	msg := BatchCompletedMsg{Op: OpDelete}
	if len(c.targets) == 0 {
		return msg, ErrNothingSelected
	}

	done, err := runBatch(ctx, msg.Op, c.targets, func(ctx context.Context, ref domain.AssetRef) error {
		if err := c.ctx.Backend.DeleteAppearance(ctx, ref); err != nil {
			return err
		}
		if c.ctx.Selection != nil {
			c.ctx.Selection.Remove(ref)
		}
		return nil
	})
	msg.Done = done
	if len(done) > 0 && c.ctx.Bus != nil {
		c.ctx.Bus.Publish(domain.AssetsDeletedEvent{Refs: done})
	}
	if err != nil {
		msg.Message = "Failed to delete appearance"
		return msg, err
	}

	if err := c.ctx.Backend.SaveAppearancesFile(ctx); err != nil {
		msg.Message = "Failed to save appearances"
		return msg, fmt.Errorf("save after delete: %w", err)
	}
	msg.Message = countMessage(done, "Appearance #%d deleted", "Deleted %d appearances")
	return msg, nil
}

// Execute performs the delete in the background
func (c *DeleteCommand) Execute() tea.Cmd {
	return toCmd(c)
}

// DuplicateCommand duplicates appearances to the next free ids
type DuplicateCommand struct {
	ctx     *CommandContext
	targets []domain.AssetRef
}

// NewDuplicateCommand creates a new duplicate command
func NewDuplicateCommand(ctx *CommandContext, targets []domain.AssetRef) *DuplicateCommand {
	return &DuplicateCommand{ctx: ctx, targets: supportedTargets(targets)}
}

func (c *DuplicateCommand) Run(ctx context.Context) (BatchCompletedMsg, error) {
	msg := BatchCompletedMsg{Op: OpDuplicate}
	if len(c.targets) == 0 {
		return msg, ErrNothingSelected
	}

	done, err := runBatch(ctx, msg.Op, c.targets, func(ctx context.Context, ref domain.AssetRef) error {
		dup, err := c.ctx.Backend.DuplicateAppearance(ctx, ref, nil)
		if err != nil {
			return err
		}
		msg.Created = append(msg.Created, domain.AssetRef{Category: ref.Category, ID: dup.ID})
		return nil
	})
	msg.Done = done
	if len(done) > 0 && c.ctx.Bus != nil {
		c.ctx.Bus.Publish(domain.AssetsDuplicatedEvent{Sources: done, Created: msg.Created})
	}
	if err != nil {
		msg.Message = "Failed to duplicate appearance"
		return msg, err
	}

	if err := c.ctx.Backend.SaveAppearancesFile(ctx); err != nil {
		msg.Message = "Failed to save appearances"
		return msg, fmt.Errorf("save after duplicate: %w", err)
	}
	if len(msg.Created) == 1 {
		msg.Message = fmt.Sprintf("Appearance duplicated as #%d", msg.Created[0].ID)
	} else {
		msg.Message = fmt.Sprintf("Duplicated %d appearances", len(msg.Created))
	}
	return msg, nil
}

func (c *DuplicateCommand) Execute() tea.Cmd {
	return toCmd(c)
}

// CopyFlagsCommand copies the flags of one appearance to the backend clipboard
type CopyFlagsCommand struct {
	ctx    *CommandContext
	source *domain.AssetRef
}

// NewCopyFlagsCommand creates a copy command for the primary selection
func NewCopyFlagsCommand(ctx *CommandContext, primary *domain.AssetRef) *CopyFlagsCommand {
	return &CopyFlagsCommand{ctx: ctx, source: primary}
}

func (c *CopyFlagsCommand) Run(ctx context.Context) (BatchCompletedMsg, error) {
	msg := BatchCompletedMsg{Op: OpCopyFlags}
	if c.source == nil || !domain.IsAppearanceCategory(c.source.Category) {
		return msg, ErrNothingSelected
	}
	if err := c.ctx.Backend.CopyAppearanceFlags(ctx, *c.source); err != nil {
		msg.Message = "Failed to copy flags"
		return msg, fmt.Errorf("copy flags from %s: %w", c.source, err)
	}
	msg.Done = []domain.AssetRef{*c.source}
	msg.Message = fmt.Sprintf("Flags copied from #%d", c.source.ID)
	return msg, nil
}

func (c *CopyFlagsCommand) Execute() tea.Cmd {
	return toCmd(c)
}

// PasteFlagsCommand applies the copied flags to every target, then saves
type PasteFlagsCommand struct {
	ctx     *CommandContext
	targets []domain.AssetRef
}

// NewPasteFlagsCommand creates a new paste flags command
func NewPasteFlagsCommand(ctx *CommandContext, targets []domain.AssetRef) *PasteFlagsCommand {
	return &PasteFlagsCommand{ctx: ctx, targets: supportedTargets(targets)}
}

func (c *PasteFlagsCommand) Run(ctx context.Context) (BatchCompletedMsg, error) {
	msg := BatchCompletedMsg{Op: OpPasteFlags}
	if len(c.targets) == 0 {
		return msg, ErrNothingSelected
	}

	done, err := runBatch(ctx, msg.Op, c.targets, c.ctx.Backend.PasteAppearanceFlags)
	msg.Done = done
	if err != nil {
		msg.Message = "Failed to paste flags"
		return msg, err
	}

	if err := c.ctx.Backend.SaveAppearancesFile(ctx); err != nil {
		msg.Message = "Failed to save appearances"
		return msg, fmt.Errorf("save after paste: %w", err)
	}
	msg.Message = countMessage(done, "Flags applied to #%d", "Flags applied to %d appearances")
	return msg, nil
}

func (c *PasteFlagsCommand) Execute() tea.Cmd {
	return toCmd(c)
}
