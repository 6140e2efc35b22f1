package rxtest

import (
	"fmt"
	"math"
	"sync"

	"github.com/destel/rx"
)

// Infinite marks a subscription that has not been disposed.
const Infinite int64 = math.MaxInt64

const maxTick = Infinite

// Kind is the kind of a notification.
type Kind int

const (
	KindNext Kind = iota
	KindError
	KindCompleted
)

func (k Kind) String() string {
	switch k {
	case KindNext:
		return "OnNext"
	case KindError:
		return "OnError"
	case KindCompleted:
		return "OnCompleted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Notification is a materialized call of one of the Observer methods.
type Notification[A any] struct {
	Kind  Kind
	Value A
	Err   error
}

// Recorded is a notification stamped with the virtual time it happened at.
type Recorded[A any] struct {
	Time int64
	Notification[A]
}

func (r Recorded[A]) String() string {
	switch r.Kind {
	case KindNext:
		return fmt.Sprintf("%s(%d, %v)", r.Kind, r.Time, r.Value)
	case KindError:
		return fmt.Sprintf("%s(%d, %v)", r.Kind, r.Time, r.Err)
	default:
		return fmt.Sprintf("%s(%d)", r.Kind, r.Time)
	}
}

func OnNext[A any](t int64, v A) Recorded[A] {
	return Recorded[A]{Time: t, Notification: Notification[A]{Kind: KindNext, Value: v}}
}

func OnError[A any](t int64, err error) Recorded[A] {
	return Recorded[A]{Time: t, Notification: Notification[A]{Kind: KindError, Err: err}}
}

func OnCompleted[A any](t int64) Recorded[A] {
	return Recorded[A]{Time: t, Notification: Notification[A]{Kind: KindCompleted}}
}

// deliver replays n on o.
func (n Notification[A]) deliver(o rx.Observer[A]) {
	switch n.Kind {
	case KindNext:
		o.OnNext(n.Value)
	case KindError:
		o.OnError(n.Err)
	case KindCompleted:
		o.OnCompleted()
	}
}

// Recorder is an observer that records every notification with the virtual time it arrived at.
type Recorder[A any] struct {
	s *TestScheduler

	mu       sync.Mutex
	messages []Recorded[A]
}

func NewRecorder[A any](s *TestScheduler) *Recorder[A] {
	return &Recorder[A]{s: s}
}

func (r *Recorder[A]) record(n Notification[A]) {
	t := r.s.Clock()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Recorded[A]{Time: t, Notification: n})
}

func (r *Recorder[A]) OnNext(a A) {
	r.record(Notification[A]{Kind: KindNext, Value: a})
}

func (r *Recorder[A]) OnError(err error) {
	r.record(Notification[A]{Kind: KindError, Err: err})
}

func (r *Recorder[A]) OnCompleted() {
	r.record(Notification[A]{Kind: KindCompleted})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder[A]) Messages() []Recorded[A] {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]Recorded[A], len(r.messages))
	copy(res, r.messages)
	return res
}

// Values returns the values of the recorded OnNext notifications.
func (r *Recorder[A]) Values() []A {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res []A
	for _, m := range r.messages {
		if m.Kind == KindNext {
			res = append(res, m.Value)
		}
	}
	return res
}
