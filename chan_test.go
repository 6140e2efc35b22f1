package rx_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/destel/rx"
	"github.com/destel/rx/internal/th"
)

func TestFromChan(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		res := collect(rx.FromChan[int](nil))
		th.ExpectValue(t, res.completed, true)
	})

	t.Run("correctness", func(t *testing.T) {
		values, err := rx.ToSlice(context.Background(), rx.FromChan(wrapChan(th.FromRange(0, 20), nil)))
		th.ExpectNoError(t, err)
		th.ExpectSlice(t, values, rangeSlice(0, 20))
	})

	t.Run("error", func(t *testing.T) {
		_, err := rx.ToSlice(context.Background(), rx.FromChan(wrapChan(th.FromRange(0, 20), fmt.Errorf("err"))))
		th.ExpectError(t, err, "err")
	})

	t.Run("early exit drains channel", func(t *testing.T) {
		in := make(chan rx.Try[int])
		finished := make(chan struct{})
		go func() {
			defer close(finished)
			defer close(in)
			for i := 0; i < 1000; i++ {
				in <- rx.Try[int]{Value: i}
			}
		}()

		first, found, err := rx.First(context.Background(), rx.FromChan(in))
		th.ExpectNoError(t, err)
		th.ExpectValue(t, found, true)
		th.ExpectValue(t, first, 0)

		// the producer is not blocked, since the rest of the channel is drained in the background
		th.ExpectClosedChan(t, finished, 2*time.Second)
	})
}

func TestToChan(t *testing.T) {
	t.Run("correctness", func(t *testing.T) {
		out := rx.ToChan(context.Background(), rx.Range(0, 1000))

		i := 0
		for x := range out {
			th.ExpectNoError(t, x.Error)
			th.ExpectValue(t, x.Value, i)
			i++
		}
		th.ExpectValue(t, i, 1000)
	})

	t.Run("error is the last item", func(t *testing.T) {
		src := rx.Map(rx.Range(0, 10), func(x int) (int, error) {
			if x == 5 {
				return 0, fmt.Errorf("err5")
			}
			return x, nil
		})

		var values []int
		var errs []string
		for x := range rx.ToChan(context.Background(), src) {
			if x.Error != nil {
				errs = append(errs, x.Error.Error())
				continue
			}
			values = append(values, x.Value)
		}

		th.ExpectSlice(t, values, []int{0, 1, 2, 3, 4})
		th.ExpectSlice(t, errs, []string{"err5"})
	})

	t.Run("cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		out := rx.ToChan(ctx, rx.Never[int]())

		cancel()
		th.ExpectClosedChan(t, out, 2*time.Second)
	})

	t.Run("slow reader does not block the source", func(t *testing.T) {
		th.ExpectNotHang(t, 2*time.Second, func() {
			rx.ToChan(context.Background(), rx.Range(0, 100000))
		})
	})
}
