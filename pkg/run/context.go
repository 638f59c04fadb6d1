package run

import (
	"context"
	"io"
)

// RunWithContextCancel runs fn, which doesn't accept a context. When
// the context is canceled, onCancel is called so it can unblock fn
// (e.g. by closing the resource fn reads from); the return then waits
// for fn to exit.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return context.Canceled
	case err := <-errCh:
		return err
	}
}

// RunWithContext is the simplified form with no cancel callback.
func RunWithContext(ctx context.Context, fn func() error) error {
	return RunWithContextCancel(ctx, nil, fn)
}

// RunWithContextCloser runs fn and guarantees closer.Close is called
// exactly once, on cancel or after fn exits on its own. Closing on
// cancel is what unblocks an fn stuck in a blocking read.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closed bool
	err := RunWithContextCancel(ctx, func() {
		closer.Close()
		closed = true
	}, fn)
	if !closed {
		closer.Close()
	}
	return err
}
