package common

import "context"

// Detach runs fn on its own goroutine with a context that is never cancelled
// by the caller, and waits for it or for ctx, whichever finishes first.
//
// The caller stops observing the call when ctx is done, but fn keeps running
// to completion, so side effects applied inside fn after a committed remote
// mutation are never lost.
func Detach[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}

	done := make(chan result, 1)
	go func() {
		v, err := fn(context.WithoutCancel(ctx))
		done <- result{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
