package rx

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// BufferOption configures [BufferWhile], [TryBufferWhile] and [BufferCount].
type BufferOption func(*bufferConfig)

type bufferConfig struct {
	capacity int
	metrics  *BufferMetrics
}

// WithCapacity sets the initial capacity of every new buffer.
// Negative capacity is not supported and will result in a panic.
func WithCapacity(n int) BufferOption {
	if n < 0 {
		panic(fmt.Errorf("negative capacity is not supported: %d", n))
	}
	return func(c *bufferConfig) {
		c.capacity = n
	}
}

// WithMetrics makes the operator report emitted batches and discarded items to m.
func WithMetrics(m *BufferMetrics) BufferOption {
	return func(c *bufferConfig) {
		c.metrics = m
	}
}

func newBufferConfig(opts []BufferOption) bufferConfig {
	var cfg bufferConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// BufferWhile groups items of src into batches, using pred to decide where a batch ends.
//
// pred is called exactly once for every incoming item. While it returns true, items are appended to the current batch.
// When it returns false, the item is appended and the batch is emitted right away; the next item starts a new one.
// pred does not see the item: it is meant to be a gate closed over some external state, such as a counter or a clock.
// See [CountGate] and [TimeGate].
//
// When src completes, a non-empty batch is emitted before the completion. When src fails,
// or the subscription is disposed, the current batch is discarded and never emitted.
//
// Emitted slices are never touched by the operator again and can be retained by the receiver.
func BufferWhile[A any](src Observable[A], pred func() bool, opts ...BufferOption) Observable[[]A] {
	return TryBufferWhile(src, func() (bool, error) {
		return pred(), nil
	}, opts...)
}

// TryBufferWhile is similar to [BufferWhile], but pred can fail.
// An error returned by pred discards the current batch, disposes the subscription to src
// and is forwarded downstream.
func TryBufferWhile[A any](src Observable[A], pred func() (bool, error), opts ...BufferOption) Observable[[]A] {
	cfg := newBufferConfig(opts)

	return ObservableFunc[[]A](func(ctx context.Context, o Observer[[]A]) Subscription {
		b := &bufferWhile[A]{
			operator: newOperator(ctx, o),
			pred:     pred,
			capacity: cfg.capacity,
			metrics:  cfg.metrics,
		}
		b.buf = b.newBuffer()

		// cancellation of the parent context is asynchronous by nature
		b.detach = context.AfterFunc(ctx, func() {
			b.discard(reasonDisposed)
		})

		sub := subscribeOperator[A, []A](src, b.operator, b)
		return NewSubscription(func() {
			b.detach()
			sub.Dispose()
			b.discard(reasonDisposed)
		})
	})
}

// BufferCount groups items of src into batches of n items.
// The last batch can be smaller. n < 1 is not supported and will result in a panic.
func BufferCount[A any](src Observable[A], n int, opts ...BufferOption) Observable[[]A] {
	if n < 1 {
		panic(fmt.Errorf("batch size must be positive, got %d", n))
	}

	opts = append([]BufferOption{WithCapacity(n)}, opts...)
	return Defer(func() Observable[[]A] {
		return BufferWhile(src, CountGate(n), opts...)
	})
}

const (
	reasonPredicate = "predicate"
	reasonCompleted = "completed"
	reasonFailed    = "failed"
	reasonDisposed  = "disposed"
)

type bufferWhile[A any] struct {
	*operator[[]A]
	pred     func() (bool, error)
	capacity int
	metrics  *BufferMetrics
	detach   func() bool

	// mu guards buf against the disposal callback. Notifications themselves never overlap.
	mu  sync.Mutex
	buf []A
}

func (b *bufferWhile[A]) newBuffer() []A {
	if b.capacity > 0 {
		return make([]A, 0, b.capacity)
	}
	return nil
}

func (b *bufferWhile[A]) OnNext(a A) {
	if b.closed() {
		return
	}

	ok, err := b.pred()
	if err != nil {
		b.detach()
		b.discard(reasonFailed)
		b.fail(err)
		return
	}

	b.mu.Lock()
	if b.ctx.Err() != nil {
		// disposed while the predicate was running, the open batch is already dropped
		b.mu.Unlock()
		b.drop(reasonDisposed, 1)
		return
	}
	b.buf = append(b.buf, a)
	if ok {
		b.mu.Unlock()
		return
	}
	batch := b.buf
	b.buf = b.newBuffer()
	b.mu.Unlock()

	if b.ctx.Err() != nil {
		b.drop(reasonDisposed, len(batch))
		return
	}

	b.metrics.observeBatch(reasonPredicate, len(batch))
	b.emit(batch)
}

func (b *bufferWhile[A]) OnError(err error) {
	if b.closed() {
		return
	}

	b.detach()
	b.discard(reasonFailed)
	b.fail(err)
}

func (b *bufferWhile[A]) OnCompleted() {
	if b.closed() {
		return
	}

	b.detach()

	b.mu.Lock()
	batch := b.buf
	b.buf = nil
	b.mu.Unlock()

	if b.ctx.Err() != nil {
		b.drop(reasonDisposed, len(batch))
		return
	}

	if len(batch) > 0 {
		b.metrics.observeBatch(reasonCompleted, len(batch))
		b.emit(batch)
	}
	b.complete()
}

// discard drops the open batch, if any.
func (b *bufferWhile[A]) discard(reason string) {
	b.mu.Lock()
	n := len(b.buf)
	b.buf = nil
	b.mu.Unlock()

	b.drop(reason, n)
}

func (b *bufferWhile[A]) drop(reason string, n int) {
	if n == 0 {
		return
	}

	zap.S().Debugw("open batch discarded", "reason", reason, "items", n)
	b.metrics.observeDiscard(reason, n)
}
