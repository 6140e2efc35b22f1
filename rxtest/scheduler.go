// Package rxtest provides a virtual-time scheduler and test observables for testing code built with package rx.
//
// Virtual time is measured in ticks. One tick is one nanosecond of [time.Duration], so a delay of
// time.Duration(10) passed to [TestScheduler.Schedule] means 10 ticks.
package rxtest

import (
	"sync"
	"time"

	"github.com/destel/rx"
	"github.com/destel/rx/internal/heap"
)

// Epoch is the wall-clock time reported by a [TestScheduler] at tick zero.
var Epoch = time.Unix(0, 0).UTC()

type scheduledItem struct {
	due    int64
	seq    int64
	action func()
	index  int
}

func (item *scheduledItem) SetIndex(i int) {
	item.index = i
}

// TestScheduler is an [rx.Scheduler] driven by a virtual clock.
// Time moves only when the test calls AdvanceTo, AdvanceBy or Start.
// Actions due at the same tick run in the order they were scheduled.
//
// Actions run on the goroutine that advances the clock. It is safe to schedule and dispose
// actions from other goroutines.
type TestScheduler struct {
	mu      sync.Mutex
	clock   int64
	seq     int64
	queue   *heap.Heap[*scheduledItem]
	stopped bool
}

func NewTestScheduler() *TestScheduler {
	q := heap.New(func(item1, item2 *scheduledItem) bool {
		if item1.due != item2.due {
			return item1.due < item2.due
		}
		return item1.seq < item2.seq
	})

	return &TestScheduler{queue: q}
}

// Clock returns the current virtual time in ticks.
func (s *TestScheduler) Clock() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Now returns Epoch plus the current virtual time.
func (s *TestScheduler) Now() time.Time {
	return Epoch.Add(time.Duration(s.Clock()))
}

// Schedule schedules action to run delay ticks from now. Negative delays are treated as zero.
func (s *TestScheduler) Schedule(delay time.Duration, action func()) rx.Subscription {
	s.mu.Lock()
	due := s.clock
	if delay > 0 {
		due += int64(delay)
	}
	s.mu.Unlock()

	return s.ScheduleAbsolute(due, action)
}

// ScheduleAbsolute schedules action to run at tick t. Actions scheduled in the past run at the next advance.
func (s *TestScheduler) ScheduleAbsolute(t int64, action func()) rx.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	item := &scheduledItem{due: t, seq: s.seq, action: action}
	s.queue.Push(item)

	return rx.NewSubscription(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if item.index >= 0 {
			s.queue.Remove(item.index)
		}
	})
}

// next pops the next action due no later than limit and moves the clock to it.
func (s *TestScheduler) next(limit int64) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.queue.Len() == 0 || s.queue.Peek().due > limit {
		return nil, false
	}

	item := s.queue.Pop()
	if item.due > s.clock {
		s.clock = item.due
	}
	return item.action, true
}

// AdvanceTo runs all actions due up to tick t, then sets the clock to t.
// Moving the clock backwards is not supported and will result in a panic.
func (s *TestScheduler) AdvanceTo(t int64) {
	if t < s.Clock() {
		panic("rxtest: cannot move the clock backwards")
	}

	s.mu.Lock()
	s.stopped = false
	s.mu.Unlock()

	for {
		action, ok := s.next(t)
		if !ok {
			break
		}
		action()
	}

	s.mu.Lock()
	if !s.stopped && s.clock < t {
		s.clock = t
	}
	s.mu.Unlock()
}

// AdvanceBy is like AdvanceTo, relative to the current clock.
func (s *TestScheduler) AdvanceBy(d int64) {
	s.AdvanceTo(s.Clock() + d)
}

// Start runs scheduled actions until none are left or Stop is called.
func (s *TestScheduler) Start() {
	s.mu.Lock()
	s.stopped = false
	s.mu.Unlock()

	for {
		action, ok := s.next(maxTick)
		if !ok {
			return
		}
		action()
	}
}

// Stop makes the running Start or AdvanceTo return after the current action.
func (s *TestScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

// Pending returns the number of scheduled actions that have not run yet.
func (s *TestScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}
