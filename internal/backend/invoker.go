// Package backend is the client side of the invoke(command, args) bridge to
// the native asset backend. The backend owns parsing, sprites and files; this
// package only moves requests and typed results across the boundary.
package backend

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned by invokers that do not serve a command
var ErrUnknownCommand = errors.New("unknown command")

// Invoker performs one request/response call against the backend and decodes
// the result into out. out may be nil when the result is not needed.
type Invoker interface {
	Invoke(ctx context.Context, command string, args map[string]any, out any) error
}

// InvokerFunc adapts a function to the Invoker interface
type InvokerFunc func(ctx context.Context, command string, args map[string]any, out any) error

// Invoke calls f
func (f InvokerFunc) Invoke(ctx context.Context, command string, args map[string]any, out any) error {
	return f(ctx, command, args, out)
}

// Error is a failure reported by the backend for a command
type Error struct {
	Command string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: backend error (HTTP %d): %s", e.Command, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}
