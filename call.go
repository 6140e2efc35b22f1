package rx

import (
	"context"
)

// FromCall turns a single call of f into an observable that emits the result and completes, or fails with the error.
// f is called on its own goroutine once per subscription, and receives a context that is canceled
// when the subscription is disposed.
func FromCall[A any](f func(ctx context.Context) (A, error)) Observable[A] {
	return Create(func(ctx context.Context, o Observer[A]) {
		go func() {
			a, err := f(ctx)
			if err != nil {
				o.OnError(err)
				return
			}
			o.OnNext(a)
			o.OnCompleted()
		}()
	})
}

// FromBatchCall turns a single call of f for a set of keys into an observable that emits each returned item in order.
// When keys is empty, f is not called at all and the observable completes immediately.
//
// This is a typical shape of client APIs that fetch many records in one request:
//
//	items := rx.FromBatchCall(ids, func(ctx context.Context, ids []int) ([]*WorkItem, error) {
//		return client.GetWorkItems(ctx, ids)
//	})
func FromBatchCall[K, A any](keys []K, f func(ctx context.Context, keys []K) ([]A, error)) Observable[A] {
	if len(keys) == 0 {
		return Empty[A]()
	}

	return Create(func(ctx context.Context, o Observer[A]) {
		go func() {
			res, err := f(ctx, keys)
			if err != nil {
				o.OnError(err)
				return
			}
			for _, a := range res {
				if ctx.Err() != nil {
					return
				}
				o.OnNext(a)
			}
			o.OnCompleted()
		}()
	})
}
