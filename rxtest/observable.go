package rxtest

import (
	"context"
	"sync"

	"github.com/destel/rx"
)

// SubscriptionLog records when a test observable was subscribed to and when that subscription ended.
// Unsubscribe is [Infinite] while the subscription is active.
type SubscriptionLog struct {
	Subscribe   int64
	Unsubscribe int64
}

// TestObservable is an observable that replays a fixed list of notifications on a [TestScheduler]
// and logs its subscriptions.
type TestObservable[A any] struct {
	s        *TestScheduler
	messages []Recorded[A]
	hot      bool

	mu        sync.Mutex
	subs      []SubscriptionLog
	observers map[int]rx.Observer[A]
}

// Cold returns an observable that replays messages to every subscriber, with times relative to the moment of subscription.
func Cold[A any](s *TestScheduler, messages ...Recorded[A]) *TestObservable[A] {
	return &TestObservable[A]{s: s, messages: messages}
}

// Hot returns an observable that emits messages at their absolute times, to whoever is subscribed at that moment.
func Hot[A any](s *TestScheduler, messages ...Recorded[A]) *TestObservable[A] {
	h := &TestObservable[A]{s: s, messages: messages, hot: true, observers: make(map[int]rx.Observer[A])}

	for _, m := range messages {
		m := m
		s.ScheduleAbsolute(m.Time, func() {
			h.mu.Lock()
			targets := make([]rx.Observer[A], 0, len(h.observers))
			for i := 0; i < len(h.subs); i++ {
				if o, ok := h.observers[i]; ok {
					targets = append(targets, o)
				}
			}
			h.mu.Unlock()

			for _, o := range targets {
				m.deliver(o)
			}
		})
	}

	return h
}

// Subscriptions returns a copy of the subscription log.
func (h *TestObservable[A]) Subscriptions() []SubscriptionLog {
	h.mu.Lock()
	defer h.mu.Unlock()

	res := make([]SubscriptionLog, len(h.subs))
	copy(res, h.subs)
	return res
}

func (h *TestObservable[A]) Subscribe(ctx context.Context, o rx.Observer[A]) rx.Subscription {
	ctx, cancel := context.WithCancel(ctx)
	guarded := &ctxObserver[A]{ctx: ctx, o: o}

	h.mu.Lock()
	idx := len(h.subs)
	h.subs = append(h.subs, SubscriptionLog{Subscribe: h.s.Clock(), Unsubscribe: Infinite})
	if h.hot {
		h.observers[idx] = guarded
	}
	h.mu.Unlock()

	var scheduled rx.CompositeSubscription
	if !h.hot {
		for _, m := range h.messages {
			m := m
			scheduled.Add(h.s.Schedule(timeDelta(m.Time), func() {
				m.deliver(guarded)
			}))
		}
	}

	sub := rx.NewSubscription(func() {
		h.mu.Lock()
		h.subs[idx].Unsubscribe = h.s.Clock()
		delete(h.observers, idx)
		h.mu.Unlock()

		cancel()
		scheduled.Dispose()
	})

	context.AfterFunc(ctx, sub.Dispose)
	return sub
}

// ctxObserver forwards notifications only while ctx is alive.
type ctxObserver[A any] struct {
	ctx context.Context
	o   rx.Observer[A]
}

func (c *ctxObserver[A]) OnNext(a A) {
	if c.ctx.Err() == nil {
		c.o.OnNext(a)
	}
}

func (c *ctxObserver[A]) OnError(err error) {
	if c.ctx.Err() == nil {
		c.o.OnError(err)
	}
}

func (c *ctxObserver[A]) OnCompleted() {
	if c.ctx.Err() == nil {
		c.o.OnCompleted()
	}
}
