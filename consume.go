package rx

import (
	"context"
	"sync"

	"github.com/destel/rx/internal/core"
)

// ForEach subscribes to src and calls f for each item. It blocks until one of the following conditions is met:
//   - src completes. ForEach returns nil.
//   - src fails. ForEach returns the error.
//   - f returns an error. The subscription is disposed and ForEach returns the error.
//   - ctx is canceled. The subscription is disposed and ForEach returns ctx.Err().
//
// f is called sequentially, in the order items are emitted.
func ForEach[A any](ctx context.Context, src Observable[A], f func(A) error) error {
	var outcome core.Outcome

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := src.Subscribe(ctx, NewObserver(
		func(a A) {
			if outcome.Settled() {
				return
			}
			if err := f(a); err != nil {
				outcome.Settle(err)
				cancel()
			}
		},
		func(err error) { outcome.Settle(err) },
		func() { outcome.Settle(nil) },
	))
	defer sub.Dispose()

	return outcome.Wait(ctx)
}

// ToSlice subscribes to src and collects all its items into a slice.
// It blocks until src terminates or ctx is canceled. On error, the items collected so far are discarded.
func ToSlice[A any](ctx context.Context, src Observable[A]) ([]A, error) {
	var mu sync.Mutex
	var res []A

	err := ForEach(ctx, src, func(a A) error {
		mu.Lock()
		res = append(res, a)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return res, nil
}

// First subscribes to src and returns its first item. The found flag is false if src completed without items.
// The subscription is disposed as soon as the first item arrives.
func First[A any](ctx context.Context, src Observable[A]) (value A, found bool, err error) {
	var mu sync.Mutex

	err = ForEach(ctx, Take(src, 1), func(a A) error {
		mu.Lock()
		value, found = a, true
		mu.Unlock()
		return nil
	})

	mu.Lock()
	defer mu.Unlock()
	if err != nil {
		var zero A
		return zero, false, err
	}
	return value, found, nil
}
