package rx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/destel/rx"
	"github.com/destel/rx/internal/th"
)

func TestForEach(t *testing.T) {
	t.Run("correctness", func(t *testing.T) {
		var got []int
		err := rx.ForEach(context.Background(), rx.Range(0, 5), func(x int) error {
			got = append(got, x)
			return nil
		})

		th.ExpectNoError(t, err)
		th.ExpectSlice(t, got, []int{0, 1, 2, 3, 4})
	})

	t.Run("f error disposes the subscription", func(t *testing.T) {
		seen := 0
		src := rx.Do(rx.Range(0, 100), rx.NewObserver(func(int) { seen++ }, nil, nil))

		err := rx.ForEach(context.Background(), src, func(x int) error {
			if x == 2 {
				return errors.New("err2")
			}
			return nil
		})

		th.ExpectError(t, err, "err2")
		th.ExpectValue(t, seen, 3)
	})

	t.Run("upstream error", func(t *testing.T) {
		err := rx.ForEach(context.Background(), rx.Throw[int](errors.New("boom")), func(int) error {
			return nil
		})
		th.ExpectError(t, err, "boom")
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		th.ExpectNotHang(t, 2*time.Second, func() {
			err := rx.ForEach(ctx, rx.Never[int](), func(int) error { return nil })
			th.ExpectValue(t, err, context.DeadlineExceeded)
		})
	})
}

func TestToSlice(t *testing.T) {
	values, err := rx.ToSlice(context.Background(), rx.BufferWhile(rx.Range(0, 5), rx.CountGate(2)))
	th.ExpectNoError(t, err)
	th.ExpectBatches(t, values, [][]int{{0, 1}, {2, 3}, {4}})

	values, err = rx.ToSlice(context.Background(), rx.Throw[[]int](errors.New("boom")))
	th.ExpectError(t, err, "boom")
	th.ExpectValue(t, len(values), 0)
}

func TestFirst(t *testing.T) {
	v, found, err := rx.First(context.Background(), rx.Range(7, 100))
	th.ExpectNoError(t, err)
	th.ExpectValue(t, found, true)
	th.ExpectValue(t, v, 7)

	_, found, err = rx.First(context.Background(), rx.Empty[int]())
	th.ExpectNoError(t, err)
	th.ExpectValue(t, found, false)

	_, _, err = rx.First(context.Background(), rx.Throw[int](errors.New("boom")))
	th.ExpectError(t, err, "boom")
}
