//go:build go1.23

package rx

import (
	"context"
	"iter"
)

// FromSeq returns an observable that synchronously emits the items of seq and completes.
// Iteration stops as soon as the subscription is disposed.
func FromSeq[A any](seq iter.Seq[A]) Observable[A] {
	return Create(func(ctx context.Context, o Observer[A]) {
		for a := range seq {
			if ctx.Err() != nil {
				return
			}
			o.OnNext(a)
		}
		o.OnCompleted()
	})
}

// FromSeq2 is similar to [FromSeq], but iterates over value-error pairs.
// The first non-nil error terminates the observable.
func FromSeq2[A any](seq iter.Seq2[A, error]) Observable[A] {
	return Create(func(ctx context.Context, o Observer[A]) {
		for a, err := range seq {
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				o.OnError(err)
				return
			}
			o.OnNext(a)
		}
		o.OnCompleted()
	})
}

// ToSeq2 subscribes to src and returns a sequence of value-error pairs.
// The error, if any, is the last pair. Breaking out of the loop disposes the subscription.
func ToSeq2[A any](ctx context.Context, src Observable[A]) iter.Seq2[A, error] {
	return func(yield func(A, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		for x := range ToChan(ctx, src) {
			if !yield(x.Value, x.Error) {
				return
			}
		}
	}
}
