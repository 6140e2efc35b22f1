package rx

import (
	"context"
	"fmt"
)

// Map applies a transformation function to each item of src.
// If f returns an error, the stream fails with that error and the subscription to src is disposed.
func Map[A, B any](src Observable[A], f func(A) (B, error)) Observable[B] {
	return ObservableFunc[B](func(ctx context.Context, o Observer[B]) Subscription {
		op := newOperator(ctx, o)
		return subscribeOperator[A, B](src, op, &mapObserver[A, B]{op, f})
	})
}

type mapObserver[A, B any] struct {
	*operator[B]
	f func(A) (B, error)
}

func (m *mapObserver[A, B]) OnNext(a A) {
	if m.closed() {
		return
	}

	b, err := m.f(a)
	if err != nil {
		m.fail(err)
		return
	}
	m.emit(b)
}

func (m *mapObserver[A, B]) OnError(err error) {
	if !m.closed() {
		m.fail(err)
	}
}

func (m *mapObserver[A, B]) OnCompleted() {
	if !m.closed() {
		m.complete()
	}
}

// Filter removes items that do not meet a specified condition.
// If f returns an error, the stream fails with that error and the subscription to src is disposed.
func Filter[A any](src Observable[A], f func(A) (bool, error)) Observable[A] {
	return ObservableFunc[A](func(ctx context.Context, o Observer[A]) Subscription {
		op := newOperator(ctx, o)
		return subscribeOperator[A, A](src, op, &filterObserver[A]{op, f})
	})
}

type filterObserver[A any] struct {
	*operator[A]
	f func(A) (bool, error)
}

func (fo *filterObserver[A]) OnNext(a A) {
	if fo.closed() {
		return
	}

	keep, err := fo.f(a)
	if err != nil {
		fo.fail(err)
		return
	}
	if keep {
		fo.emit(a)
	}
}

func (fo *filterObserver[A]) OnError(err error) {
	if !fo.closed() {
		fo.fail(err)
	}
}

func (fo *filterObserver[A]) OnCompleted() {
	if !fo.closed() {
		fo.complete()
	}
}

// Take emits the first n items of src and completes. After the n-th item the subscription to src is disposed.
// Negative n is not supported and will result in a panic.
func Take[A any](src Observable[A], n int) Observable[A] {
	if n < 0 {
		panic(fmt.Errorf("negative count is not supported: %d", n))
	}
	if n == 0 {
		return Empty[A]()
	}

	return ObservableFunc[A](func(ctx context.Context, o Observer[A]) Subscription {
		op := newOperator(ctx, o)
		return subscribeOperator[A, A](src, op, &takeObserver[A]{operator: op, left: n})
	})
}

type takeObserver[A any] struct {
	*operator[A]
	left int
}

func (t *takeObserver[A]) OnNext(a A) {
	if t.closed() {
		return
	}

	t.left--
	t.emit(a)
	if t.left == 0 {
		t.complete()
	}
}

func (t *takeObserver[A]) OnError(err error) {
	if !t.closed() {
		t.fail(err)
	}
}

func (t *takeObserver[A]) OnCompleted() {
	if !t.closed() {
		t.complete()
	}
}

// Do calls the methods of tap for every notification of src before forwarding it downstream.
// It's useful for logging and diagnostics.
func Do[A any](src Observable[A], tap Observer[A]) Observable[A] {
	return ObservableFunc[A](func(ctx context.Context, o Observer[A]) Subscription {
		op := newOperator(ctx, o)
		return subscribeOperator[A, A](src, op, &doObserver[A]{op, tap})
	})
}

type doObserver[A any] struct {
	*operator[A]
	tap Observer[A]
}

func (d *doObserver[A]) OnNext(a A) {
	if d.closed() {
		return
	}
	d.tap.OnNext(a)
	d.emit(a)
}

func (d *doObserver[A]) OnError(err error) {
	if d.closed() {
		return
	}
	d.tap.OnError(err)
	d.fail(err)
}

func (d *doObserver[A]) OnCompleted() {
	if d.closed() {
		return
	}
	d.tap.OnCompleted()
	d.complete()
}
