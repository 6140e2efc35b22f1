package rx

import (
	"sync"
	"sync/atomic"
)

// Subscription is a handle returned by [Observable.Subscribe].
// Disposing it stops all further notifications to the subscribed observer.
// Dispose is idempotent and safe for concurrent use.
type Subscription interface {
	Dispose()
	IsDisposed() bool
}

type funcSubscription struct {
	once     sync.Once
	disposed atomic.Bool
	f        func()
}

// NewSubscription returns a [Subscription] that calls f on the first call to Dispose.
// f can be nil.
func NewSubscription(f func()) Subscription {
	return &funcSubscription{f: f}
}

func (s *funcSubscription) Dispose() {
	s.once.Do(func() {
		s.disposed.Store(true)
		if s.f != nil {
			s.f()
		}
	})
}

func (s *funcSubscription) IsDisposed() bool {
	return s.disposed.Load()
}

// CompositeSubscription disposes a group of subscriptions together.
// Subscriptions added after Dispose are disposed immediately.
type CompositeSubscription struct {
	mu       sync.Mutex
	subs     []Subscription
	disposed bool
}

// Add adds subscriptions to the group.
func (c *CompositeSubscription) Add(subs ...Subscription) {
	c.mu.Lock()
	if !c.disposed {
		c.subs = append(c.subs, subs...)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	for _, s := range subs {
		s.Dispose()
	}
}

func (c *CompositeSubscription) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, s := range subs {
		s.Dispose()
	}
}

func (c *CompositeSubscription) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// singleAssignment holds a subscription that becomes known only after Subscribe returns,
// while the notifications delivered during Subscribe may already need to dispose it.
type singleAssignment struct {
	mu       sync.Mutex
	sub      Subscription
	disposed bool
}

// Set stores s. If the holder has already been disposed, s is disposed right away.
func (h *singleAssignment) Set(s Subscription) {
	if s == nil {
		return
	}

	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		s.Dispose()
		return
	}
	h.sub = s
	h.mu.Unlock()
}

func (h *singleAssignment) Dispose() {
	h.mu.Lock()
	if h.disposed {
		h.mu.Unlock()
		return
	}
	h.disposed = true
	s := h.sub
	h.sub = nil
	h.mu.Unlock()

	if s != nil {
		s.Dispose()
	}
}
