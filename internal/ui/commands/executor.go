package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"assetgrip/internal/domain"
	"assetgrip/internal/eventbus"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor
func NewExecutor(backend Backend, selection SelectionEditor, bus eventbus.EventBus) *Executor {
	return &Executor{
		ctx: &CommandContext{
			Backend:   backend,
			Selection: selection,
			Bus:       bus,
		},
	}
}

// ExecuteDelete creates and executes a delete command
func (e *Executor) ExecuteDelete(targets []domain.AssetRef) tea.Cmd {
	return NewDeleteCommand(e.ctx, targets).Execute()
}

// ExecuteDuplicate creates and executes a duplicate command
func (e *Executor) ExecuteDuplicate(targets []domain.AssetRef) tea.Cmd {
	return NewDuplicateCommand(e.ctx, targets).Execute()
}

// ExecuteCopyFlags creates and executes a copy flags command
func (e *Executor) ExecuteCopyFlags(primary *domain.AssetRef) tea.Cmd {
	return NewCopyFlagsCommand(e.ctx, primary).Execute()
}

// ExecutePasteFlags creates and executes a paste flags command
func (e *Executor) ExecutePasteFlags(targets []domain.AssetRef) tea.Cmd {
	return NewPasteFlagsCommand(e.ctx, targets).Execute()
}

// ExecuteExport creates and executes an export command
func (e *Executor) ExecuteExport(targets []domain.AssetRef, dir string) tea.Cmd {
	return NewExportCommand(e.ctx, targets, dir).Execute()
}
