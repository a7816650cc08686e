// Package runctx tags a context with the identity of one export run.
package runctx

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type key int

const runKey key = 0

// RunContext identifies one export run
type RunContext struct {
	RunID     string
	PageURL   string
	StartTime time.Time
}

// WithRun returns a child context carrying a fresh run ID
func WithRun(ctx context.Context, pageURL string) context.Context {
	return context.WithValue(ctx, runKey, &RunContext{
		RunID:     uuid.NewString(),
		PageURL:   pageURL,
		StartTime: time.Now(),
	})
}

// Get returns the run context, or a placeholder when none is attached
func Get(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runKey).(*RunContext); ok {
		return rc
	}
	return &RunContext{
		RunID:     "unknown",
		StartTime: time.Now(),
	}
}

// ID is shorthand for Get(ctx).RunID
func ID(ctx context.Context) string {
	return Get(ctx).RunID
}

// RunError wraps an error with the run ID
type RunError struct {
	RunID string
	Err   error
}

// Error implements the error interface
func (e *RunError) Error() string {
	return fmt.Sprintf("[%s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError creates a RunError from context
func NewRunError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	return &RunError{
		RunID: ID(ctx),
		Err:   err,
	}
}
