package rx

import (
	"context"
	"errors"
	"math"
)

// ErrNoElements is returned by analyzers that have no meaningful result for an empty stream.
var ErrNoElements = errors.New("rx: sequence contains no elements")

// Number is a constraint for the types the numeric analyzers work with.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Reduce folds all items of src into a single value, starting from seed.
// The result is emitted when src completes. Errors from src or f terminate the stream.
func Reduce[A, R any](src Observable[A], seed R, f func(R, A) (R, error)) Observable[R] {
	return ObservableFunc[R](func(ctx context.Context, o Observer[R]) Subscription {
		op := newOperator(ctx, o)
		return subscribeOperator[A, R](src, op, &reduceObserver[A, R]{operator: op, acc: seed, f: f})
	})
}

type reduceObserver[A, R any] struct {
	*operator[R]
	acc R
	f   func(R, A) (R, error)
}

func (r *reduceObserver[A, R]) OnNext(a A) {
	if r.closed() {
		return
	}

	acc, err := r.f(r.acc, a)
	if err != nil {
		r.fail(err)
		return
	}
	r.acc = acc
}

func (r *reduceObserver[A, R]) OnError(err error) {
	if !r.closed() {
		r.fail(err)
	}
}

func (r *reduceObserver[A, R]) OnCompleted() {
	if r.closed() {
		return
	}
	r.emit(r.acc)
	r.complete()
}

// Count emits the number of items of src when it completes.
func Count[A any](src Observable[A]) Observable[int] {
	return Reduce(src, 0, func(n int, _ A) (int, error) {
		return n + 1, nil
	})
}

// Sum emits the sum of all items of src when it completes. The sum of an empty stream is zero.
func Sum[A Number](src Observable[A]) Observable[A] {
	return Reduce(src, A(0), func(sum A, a A) (A, error) {
		return sum + a, nil
	})
}

// Summary describes a stream of numbers.
type Summary struct {
	Count    int
	Min      float64
	Max      float64
	Mean     float64
	Variance float64 // population variance
}

// StdDev returns the population standard deviation.
func (s Summary) StdDev() float64 {
	return math.Sqrt(s.Variance)
}

// summarizer accumulates a Summary using Welford's online algorithm.
type summarizer struct {
	s  Summary
	m2 float64
}

func (z *summarizer) add(x float64) {
	z.s.Count++
	if z.s.Count == 1 {
		z.s.Min, z.s.Max = x, x
	} else {
		z.s.Min = math.Min(z.s.Min, x)
		z.s.Max = math.Max(z.s.Max, x)
	}

	delta := x - z.s.Mean
	z.s.Mean += delta / float64(z.s.Count)
	z.m2 += delta * (x - z.s.Mean)
	z.s.Variance = z.m2 / float64(z.s.Count)
}

// Summarize emits a [Summary] of src when it completes.
// An empty stream fails with [ErrNoElements].
func Summarize[A Number](src Observable[A]) Observable[Summary] {
	acc := Reduce(src, (*summarizer)(nil), func(z *summarizer, a A) (*summarizer, error) {
		if z == nil {
			z = &summarizer{}
		}
		z.add(float64(a))
		return z, nil
	})

	return Map(acc, func(z *summarizer) (Summary, error) {
		if z == nil {
			return Summary{}, ErrNoElements
		}
		return z.s, nil
	})
}

// Average emits the arithmetic mean of src when it completes.
// An empty stream fails with [ErrNoElements].
func Average[A Number](src Observable[A]) Observable[float64] {
	return Map(Summarize(src), func(s Summary) (float64, error) {
		return s.Mean, nil
	})
}

// SummarizeSlice returns a [Summary] of s. The second result is false if s is empty.
func SummarizeSlice[A Number](s []A) (Summary, bool) {
	var z summarizer
	for _, a := range s {
		z.add(float64(a))
	}
	return z.s, z.s.Count > 0
}
