package core

import (
	"context"
	"sync"
	"sync/atomic"
)

// Outcome records the way a stream has terminated. It is like sync.Once, but also allows
// waiting until the first call is complete and remembers the error passed to it.
// The zero value is ready to use.
type Outcome struct {
	once     sync.Once
	initOnce sync.Once
	done     chan struct{} // closed by Settle
	settled  atomic.Bool
	err      error
}

func (o *Outcome) init() {
	o.initOnce.Do(func() {
		o.done = make(chan struct{})
	})
}

// Settle records err as the outcome. Only the first call has an effect.
// It reports whether this call was the first one.
func (o *Outcome) Settle(err error) bool {
	first := false
	o.once.Do(func() {
		o.init()
		o.err = err
		o.settled.Store(true)
		close(o.done)
		first = true
	})
	return first
}

// Settled reports whether Settle has been called.
func (o *Outcome) Settled() bool {
	return o.settled.Load()
}

// Done returns a channel that is closed once the outcome is settled.
func (o *Outcome) Done() <-chan struct{} {
	o.init()
	return o.done
}

// Wait blocks until the outcome is settled or ctx is done, and returns the recorded error or ctx.Err().
// A settled outcome takes precedence over a canceled context.
func (o *Outcome) Wait(ctx context.Context) error {
	o.init()

	select {
	case <-o.done:
		return o.err
	default:
	}

	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		select {
		case <-o.done:
			return o.err
		default:
			return ctx.Err()
		}
	}
}
