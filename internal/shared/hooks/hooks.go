// Package hooks runs best-effort post-commit side effects. Each hook executes
// inside its own failure boundary: errors and panics are logged and collected,
// never returned to the caller of the primary operation.
package hooks

import (
	"context"
	"fmt"
	"log/slog"
)

// Hook is a named side effect run after a primary write has committed.
type Hook[T any] struct {
	Name string
	Run  func(ctx context.Context, payload T) error
}

// Failure records a hook that returned an error or panicked.
type Failure struct {
	Hook string
	Err  error
}

// Chain is an ordered list of hooks sharing a payload.
type Chain[T any] struct {
	hooks  []Hook[T]
	logger *slog.Logger
}

// NewChain builds a chain. A nil logger discards failure logs.
func NewChain[T any](logger *slog.Logger, hooks ...Hook[T]) *Chain[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Chain[T]{hooks: hooks, logger: logger}
}

// Append adds hooks to the end of the chain.
func (c *Chain[T]) Append(hooks ...Hook[T]) {
	c.hooks = append(c.hooks, hooks...)
}

// Len reports the number of hooks in the chain.
func (c *Chain[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.hooks)
}

// Run executes every hook in order and returns the failures observed.
func (c *Chain[T]) Run(ctx context.Context, payload T) []Failure {
	if c == nil {
		return nil
	}
	var failures []Failure
	for _, hook := range c.hooks {
		if hook.Run == nil {
			continue
		}
		if err := runGuarded(ctx, hook, payload); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "post-commit hook failed",
				slog.String("hook", hook.Name), slog.String("error", err.Error()))
			failures = append(failures, Failure{Hook: hook.Name, Err: err})
		}
	}
	return failures
}

func runGuarded[T any](ctx context.Context, hook Hook[T], payload T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook %s panicked: %v", hook.Name, r)
		}
	}()
	return hook.Run(ctx, payload)
}
