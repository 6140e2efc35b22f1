package rx

import (
	"fmt"
	"time"
)

// CountGate returns a predicate for [BufferWhile] that closes every n-th batch:
// it returns true n-1 times, then false once, and starts over.
func CountGate(n int) func() bool {
	if n < 1 {
		panic(fmt.Errorf("gate size must be positive, got %d", n))
	}

	calls := 0
	return func() bool {
		calls++
		if calls < n {
			return true
		}
		calls = 0
		return false
	}
}

// TimeGate returns a predicate for [BufferWhile] that keeps a batch open for at most d.
// The window starts at the first call after the gate has closed. The predicate is evaluated only
// when items arrive, so a batch is closed by the first item that arrives after the window has ended.
func TimeGate(s Scheduler, d time.Duration) func() bool {
	var start time.Time
	open := false

	return func() bool {
		now := s.Now()
		if !open {
			open = true
			start = now
		}

		if now.Sub(start) < d {
			return true
		}

		open = false
		return false
	}
}

// CountOrTimeGate combines [CountGate] and [TimeGate]: a batch is closed by the n-th item
// or by the first item after d has passed, whichever comes first. Both limits start over together.
func CountOrTimeGate(s Scheduler, n int, d time.Duration) func() bool {
	if n < 1 {
		panic(fmt.Errorf("gate size must be positive, got %d", n))
	}

	var start time.Time
	calls := 0

	return func() bool {
		now := s.Now()
		if calls == 0 {
			start = now
		}
		calls++

		if calls < n && now.Sub(start) < d {
			return true
		}

		calls = 0
		return false
	}
}
