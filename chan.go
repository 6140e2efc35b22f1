package rx

import (
	"context"
	"sync"

	"github.com/destel/rx/internal/core"
	"github.com/destel/rx/internal/ringbuffer"
)

// FromChan turns a channel-based stream into an observable.
// Values are forwarded in order. The first error terminates the observable. The end of the channel completes it.
//
// The channel is read by a dedicated goroutine. If the subscription is terminated early, the rest of the channel
// is drained in the background, so the goroutines feeding it are allowed to complete.
// The channel should not be used anymore after subscribing. The observable is meant to be subscribed once.
func FromChan[A any](in <-chan Try[A]) Observable[A] {
	return Create(func(ctx context.Context, o Observer[A]) {
		if in == nil {
			o.OnCompleted()
			return
		}

		go func() {
			defer core.DrainNB(in)

			for {
				select {
				case <-ctx.Done():
					return
				case a, ok := <-in:
					if !ok {
						o.OnCompleted()
						return
					}
					if a.Error != nil {
						o.OnError(a.Error)
						return
					}
					o.OnNext(a.Value)
				}
			}
		}()
	})
}

// ToChan subscribes to src and returns a channel-based stream of its notifications.
//
// Notifications are queued without limit, so src is never blocked by a slow reader.
// The error, if any, is the last item of the stream. The channel is closed after the terminal notification
// has been delivered, or right after ctx is canceled. In the latter case queued items are dropped.
func ToChan[A any](ctx context.Context, src Observable[A]) <-chan Try[A] {
	out := make(chan Try[A])
	q := &chanQueue[A]{wake: make(chan struct{}, 1)}

	ctx, cancel := context.WithCancel(ctx)
	sub := src.Subscribe(ctx, NewObserver(
		func(a A) { q.push(Try[A]{Value: a}, false) },
		func(err error) { q.push(Try[A]{Error: err}, true) },
		func() { q.push(Try[A]{}, true) },
	))

	go func() {
		defer close(out)
		defer sub.Dispose()
		defer cancel()

		var batch []Try[A]
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
			}

			var closed bool
			batch, closed = q.take(batch[:0])
			for _, a := range batch {
				select {
				case <-ctx.Done():
					return
				case out <- a:
				}
			}
			if closed {
				return
			}
		}
	}()

	return out
}

// chanQueue hands notifications over from the observer to the goroutine writing to the channel.
type chanQueue[A any] struct {
	mu     sync.Mutex
	buf    ringbuffer.Buffer[Try[A]]
	closed bool
	wake   chan struct{}
}

// push queues an item. A terminal notification carries an error or nothing at all.
func (q *chanQueue[A]) push(a Try[A], terminal bool) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	if !terminal || a.Error != nil {
		q.buf.Write(a)
	}
	q.closed = terminal
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *chanQueue[A]) take(dst []Try[A]) ([]Try[A], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	dst = q.buf.ReadAll(dst)
	q.buf.Compact()
	return dst, q.closed
}
