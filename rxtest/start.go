package rxtest

import (
	"context"
	"time"

	"github.com/destel/rx"
)

// Default virtual times used by [Start].
const (
	Created    int64 = 100
	Subscribed int64 = 200
	Disposed   int64 = 1000
)

func timeDelta(ticks int64) time.Duration {
	return time.Duration(ticks)
}

// Start creates an observable at tick [Created], subscribes to it at [Subscribed], disposes the subscription
// at [Disposed] and runs the scheduler until no work is left. It returns the recorded notifications.
func Start[A any](s *TestScheduler, create func() rx.Observable[A]) *Recorder[A] {
	return StartAt(s, Created, Subscribed, Disposed, create)
}

// StartAt is like [Start] with explicit virtual times.
func StartAt[A any](s *TestScheduler, created, subscribed, disposed int64, create func() rx.Observable[A]) *Recorder[A] {
	r := NewRecorder[A](s)

	var src rx.Observable[A]
	var sub rx.Subscription

	s.ScheduleAbsolute(created, func() {
		src = create()
	})
	s.ScheduleAbsolute(subscribed, func() {
		sub = src.Subscribe(context.Background(), r)
	})
	s.ScheduleAbsolute(disposed, func() {
		sub.Dispose()
	})

	s.Start()
	return r
}
