package rx

import (
	"context"
	"fmt"
)

// Try is a container for a value or an error.
// It is used to exchange items with channel-based streams, see [FromChan] and [ToChan].
type Try[A any] struct {
	Value A
	Error error
}

// Empty returns an observable that completes immediately.
func Empty[A any]() Observable[A] {
	return Create(func(ctx context.Context, o Observer[A]) {
		o.OnCompleted()
	})
}

// Never returns an observable that emits nothing and never terminates.
func Never[A any]() Observable[A] {
	return Create(func(ctx context.Context, o Observer[A]) {})
}

// Throw returns an observable that fails immediately with err.
func Throw[A any](err error) Observable[A] {
	return Create(func(ctx context.Context, o Observer[A]) {
		o.OnError(err)
	})
}

// Just returns an observable that emits the given values and completes.
func Just[A any](values ...A) Observable[A] {
	return FromSlice(values)
}

// FromSlice returns an observable that emits items of s in order and completes.
// Emission is synchronous and stops as soon as the subscription is disposed.
func FromSlice[A any](s []A) Observable[A] {
	return Create(func(ctx context.Context, o Observer[A]) {
		for _, a := range s {
			if ctx.Err() != nil {
				return
			}
			o.OnNext(a)
		}
		o.OnCompleted()
	})
}

// Range returns an observable that synchronously emits count sequential integers starting from start.
// Negative count is not supported and will result in a panic.
func Range(start, count int) Observable[int] {
	if count < 0 {
		panic(fmt.Errorf("negative count is not supported: %d", count))
	}

	return Create(func(ctx context.Context, o Observer[int]) {
		for i := start; i < start+count; i++ {
			if ctx.Err() != nil {
				return
			}
			o.OnNext(i)
		}
		o.OnCompleted()
	})
}
