// Package run provides minimal infrastructure for long-running link
// loops and daemons.
package run

import "context"

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Func is the func form of Runnable.
type Func func(context.Context) error

// Run implements Runnable.
func (f Func) Run(ctx context.Context) error {
	return f(ctx)
}
