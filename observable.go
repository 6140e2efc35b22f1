package rx

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
)

// Observer receives notifications from an [Observable].
//
// A well-behaved observable calls OnNext zero or more times, followed by at most one call to either
// OnError or OnCompleted. Notifications for a single subscription are never delivered concurrently.
type Observer[A any] interface {
	OnNext(A)
	OnError(error)
	OnCompleted()
}

// Observable is a push-based stream of items.
//
// Subscribe starts delivering notifications to o. Delivery stops when the returned subscription
// is disposed, ctx is canceled or a terminal notification has been sent, whichever comes first.
type Observable[A any] interface {
	Subscribe(ctx context.Context, o Observer[A]) Subscription
}

// ObservableFunc adapts a function to the [Observable] interface.
type ObservableFunc[A any] func(ctx context.Context, o Observer[A]) Subscription

func (f ObservableFunc[A]) Subscribe(ctx context.Context, o Observer[A]) Subscription {
	return f(ctx, o)
}

type funcObserver[A any] struct {
	next      func(A)
	err       func(error)
	completed func()
}

// NewObserver builds an [Observer] from three functions. Any of them can be nil.
func NewObserver[A any](next func(A), err func(error), completed func()) Observer[A] {
	return &funcObserver[A]{next: next, err: err, completed: completed}
}

func (o *funcObserver[A]) OnNext(a A) {
	if o.next != nil {
		o.next(a)
	}
}

func (o *funcObserver[A]) OnError(err error) {
	if o.err != nil {
		o.err(err)
	}
}

func (o *funcObserver[A]) OnCompleted() {
	if o.completed != nil {
		o.completed()
	}
}

// Create builds an observable from a producer function.
//
// The producer is called synchronously inside Subscribe. It can emit items right away or hand the observer
// over to a goroutine or a [Scheduler] and return. Either way it must stop emitting once ctx is done.
// The context is canceled when the subscription is disposed or after a terminal notification.
//
// The observer passed to the producer drops any notifications that violate the
// OnNext* (OnError | OnCompleted)? grammar or arrive after disposal.
func Create[A any](produce func(ctx context.Context, o Observer[A])) Observable[A] {
	return ObservableFunc[A](func(ctx context.Context, o Observer[A]) Subscription {
		ctx, cancel := context.WithCancel(ctx)
		produce(ctx, newSafeObserver(ctx, cancel, o))
		return NewSubscription(cancel)
	})
}

// Defer calls factory for every subscription and subscribes to the observable it returns.
// It is the way to give each subscription its own state, such as a fresh gate.
func Defer[A any](factory func() Observable[A]) Observable[A] {
	return ObservableFunc[A](func(ctx context.Context, o Observer[A]) Subscription {
		return factory().Subscribe(ctx, o)
	})
}

// safeObserver enforces the notification grammar for one subscription.
type safeObserver[A any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	o      Observer[A]
	done   atomic.Bool
}

func newSafeObserver[A any](ctx context.Context, cancel context.CancelFunc, o Observer[A]) *safeObserver[A] {
	return &safeObserver[A]{ctx: ctx, cancel: cancel, o: o}
}

func (s *safeObserver[A]) OnNext(a A) {
	if s.done.Load() {
		zap.S().Warnw("notification after termination dropped", "kind", "next")
		return
	}
	if s.ctx.Err() != nil {
		zap.S().Debugw("notification after disposal dropped", "kind", "next")
		return
	}

	s.o.OnNext(a)
}

func (s *safeObserver[A]) OnError(err error) {
	if !s.done.CompareAndSwap(false, true) {
		zap.S().Warnw("notification after termination dropped", "kind", "error", "error", err)
		return
	}
	defer s.cancel()

	if s.ctx.Err() != nil {
		zap.S().Debugw("notification after disposal dropped", "kind", "error", "error", err)
		return
	}

	s.o.OnError(err)
}

func (s *safeObserver[A]) OnCompleted() {
	if !s.done.CompareAndSwap(false, true) {
		zap.S().Warnw("notification after termination dropped", "kind", "completed")
		return
	}
	defer s.cancel()

	if s.ctx.Err() != nil {
		zap.S().Debugw("notification after disposal dropped", "kind", "completed")
		return
	}

	s.o.OnCompleted()
}

// operator is embedded by the observers of intermediate operators. It owns the upstream subscription
// and makes sure that the downstream receives at most one terminal notification.
type operator[B any] struct {
	ctx        context.Context
	cancel     context.CancelFunc
	upstream   singleAssignment
	downstream Observer[B]
	done       bool
}

func newOperator[B any](ctx context.Context, downstream Observer[B]) *operator[B] {
	ctx, cancel := context.WithCancel(ctx)
	return &operator[B]{ctx: ctx, cancel: cancel, downstream: downstream}
}

// closed reports whether the operator should ignore an incoming notification.
func (op *operator[B]) closed() bool {
	return op.done || op.ctx.Err() != nil
}

// stop detaches the operator from its source.
func (op *operator[B]) stop() {
	op.cancel()
	op.upstream.Dispose()
}

func (op *operator[B]) emit(b B) {
	op.downstream.OnNext(b)
}

func (op *operator[B]) fail(err error) {
	op.done = true
	op.stop()
	op.downstream.OnError(err)
}

func (op *operator[B]) complete() {
	op.done = true
	op.stop()
	op.downstream.OnCompleted()
}

// subscribeOperator wires an operator observer to its source and returns the downstream subscription.
func subscribeOperator[A, B any](src Observable[A], op *operator[B], o Observer[A]) Subscription {
	op.upstream.Set(src.Subscribe(op.ctx, o))
	return NewSubscription(op.stop)
}
