package async

import (
	"context"
	"time"
)

// Future is the pending result of a computation started with Async.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the computation finishes.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout blocks until the computation finishes or the timeout
// elapses, in which case it returns ErrTimeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// Async runs fn on its own goroutine and returns a Future for its result.
func Async[T, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// Go runs fn on its own goroutine and reports a non-nil error to onError.
// The task is detached from the caller's cancellation: request-scoped
// contexts end when the response is written, and background work like email
// dispatch must outlive that.
func Go[T any](ctx context.Context, param T, fn func(context.Context, T) error, onError func(error)) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		if err := fn(ctx, param); err != nil && onError != nil {
			onError(err)
		}
	}()
}
