package run

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnerAggregatesErrors(t *testing.T) {
	boom := errors.New("boom")
	err := NewRunner().Go(
		Func(func(ctx context.Context) error { return nil }),
		Func(func(ctx context.Context) error { return boom }),
		Func(func(ctx context.Context) error { return context.Canceled }),
	).Wait()
	require.Equal(t, boom, err)
}

func TestRunnerNoErrors(t *testing.T) {
	err := NewRunner().Go(
		Func(func(ctx context.Context) error { return nil }),
	).Wait()
	require.NoError(t, err)
}

func TestRunnerCancelPropagates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).Go(Func(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	cancel()
	require.NoError(t, r.Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())

	e1, e2 := errors.New("one"), errors.New("two")
	errs.Add(e1, nil)
	require.Equal(t, e1, errs.Aggregate())

	errs.Add(e2)
	err := errs.Aggregate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "one")
	require.Contains(t, err.Error(), "two")
}
