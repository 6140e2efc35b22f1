package rx

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Scheduler decides when scheduled work runs.
// Operators that depend on time take a Scheduler explicitly, so tests can drive them with a virtual clock.
type Scheduler interface {
	// Now returns the scheduler's notion of the current time.
	Now() time.Time
	// Schedule runs action once after delay. Disposing the returned subscription cancels
	// the action if it has not started yet.
	Schedule(delay time.Duration, action func()) Subscription
}

// TimeScheduler is a [Scheduler] backed by the wall clock. Actions run on their own goroutines.
var TimeScheduler Scheduler = timeScheduler{}

type timeScheduler struct{}

func (timeScheduler) Now() time.Time {
	return time.Now()
}

func (timeScheduler) Schedule(delay time.Duration, action func()) Subscription {
	t := time.AfterFunc(delay, action)
	return NewSubscription(func() {
		t.Stop()
	})
}

// Interval returns an observable that emits sequential integers starting from 0, one every period.
// The first item is emitted after the first period. The next tick is scheduled only after
// the observer is done with the current one, so notifications never overlap.
func Interval(s Scheduler, period time.Duration) Observable[int] {
	if period <= 0 {
		panic(fmt.Errorf("non-positive period is not supported: %v", period))
	}

	return Create(func(ctx context.Context, o Observer[int]) {
		var mu sync.Mutex
		var pending Subscription

		var tick func(i int)
		tick = func(i int) {
			if ctx.Err() != nil {
				return
			}
			o.OnNext(i)

			mu.Lock()
			defer mu.Unlock()
			if ctx.Err() == nil {
				pending = s.Schedule(period, func() { tick(i + 1) })
			}
		}

		mu.Lock()
		pending = s.Schedule(period, func() { tick(0) })
		mu.Unlock()

		context.AfterFunc(ctx, func() {
			mu.Lock()
			defer mu.Unlock()
			pending.Dispose()
		})
	})
}

// Timer returns an observable that emits 0 after delay and completes.
func Timer(s Scheduler, delay time.Duration) Observable[int] {
	return Create(func(ctx context.Context, o Observer[int]) {
		pending := s.Schedule(delay, func() {
			if ctx.Err() != nil {
				return
			}
			o.OnNext(0)
			o.OnCompleted()
		})

		context.AfterFunc(ctx, pending.Dispose)
	})
}
