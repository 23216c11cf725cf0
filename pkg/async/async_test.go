package async_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connectorhq/authkit/pkg/async"
)

func TestAsync(t *testing.T) {
	t.Parallel()

	t.Run("returns the computed result", func(t *testing.T) {
		t.Parallel()

		f := async.Async(context.Background(), 21, func(_ context.Context, n int) (int, error) {
			return n * 2, nil
		})

		result, err := f.Await()
		require.NoError(t, err)
		assert.Equal(t, 42, result)
	})

	t.Run("propagates errors", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		f := async.Async(context.Background(), struct{}{}, func(context.Context, struct{}) (int, error) {
			return 0, wantErr
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("pre-canceled context short-circuits", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := async.Async(ctx, struct{}{}, func(context.Context, struct{}) (int, error) {
			t.Error("fn must not run with a canceled context")
			return 0, nil
		})

		_, err := f.Await()
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("await with timeout", func(t *testing.T) {
		t.Parallel()

		block := make(chan struct{})
		defer close(block)

		f := async.Async(context.Background(), struct{}{}, func(context.Context, struct{}) (int, error) {
			<-block
			return 0, nil
		})

		_, err := f.AwaitWithTimeout(10 * time.Millisecond)
		assert.ErrorIs(t, err, async.ErrTimeout)
	})
}

func TestGo(t *testing.T) {
	t.Parallel()

	t.Run("reports errors to the callback", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("dispatch failed")
		got := make(chan error, 1)

		async.Go(context.Background(), struct{}{}, func(context.Context, struct{}) error {
			return wantErr
		}, func(err error) { got <- err })

		select {
		case err := <-got:
			assert.ErrorIs(t, err, wantErr)
		case <-time.After(time.Second):
			t.Fatal("error callback never invoked")
		}
	})

	t.Run("survives caller cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		ran := make(chan struct{})

		async.Go(ctx, struct{}{}, func(ctx context.Context, _ struct{}) error {
			require.NoError(t, ctx.Err())
			close(ran)
			return nil
		}, nil)
		cancel()

		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatal("background task never ran")
		}
	})
}
