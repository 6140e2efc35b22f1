package rx_test

import (
	"context"
	"sync"

	"github.com/destel/rx"
)

// collector records everything a synchronous subscription delivers.
type collector[A any] struct {
	mu        sync.Mutex
	values    []A
	err       error
	completed bool
	terminals int
}

func (c *collector[A]) OnNext(a A) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = append(c.values, a)
}

func (c *collector[A]) OnError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
	c.terminals++
}

func (c *collector[A]) OnCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed = true
	c.terminals++
}

func collect[A any](src rx.Observable[A]) *collector[A] {
	c := &collector[A]{}
	src.Subscribe(context.Background(), c)
	return c
}

func wrapChan[A any](in <-chan A, err error) <-chan rx.Try[A] {
	out := make(chan rx.Try[A])
	go func() {
		defer close(out)
		for x := range in {
			out <- rx.Try[A]{Value: x}
		}
		if err != nil {
			out <- rx.Try[A]{Error: err}
		}
	}()
	return out
}

func rangeSlice(start, end int) []int {
	var res []int
	for i := start; i < end; i++ {
		res = append(res, i)
	}
	return res
}
