package run

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testCloser struct {
	closed chan struct{}
}

func (c *testCloser) Close() error {
	close(c.closed)
	return nil
}

func TestRunWithContext(t *testing.T) {
	boom := errors.New("boom")
	require.Equal(t, boom, RunWithContext(context.Background(), func() error { return boom }))
	require.NoError(t, RunWithContext(context.Background(), func() error { return nil }))
}

func TestRunWithContextCloserUnblocksOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	closer := &testCloser{closed: make(chan struct{})}
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunWithContextCloser(ctx, closer, func() error {
			// blocks like a read until the closer unblocks it
			<-closer.closed
			return errors.New("closed")
		})
	}()

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("fn was not unblocked by cancel")
	}
}

func TestRunWithContextCloserClosesOnExit(t *testing.T) {
	closer := &testCloser{closed: make(chan struct{})}
	boom := errors.New("boom")
	require.Equal(t, boom, RunWithContextCloser(context.Background(), closer, func() error {
		return boom
	}))
	select {
	case <-closer.closed:
	default:
		t.Fatal("closer was not closed after fn exited")
	}
}
