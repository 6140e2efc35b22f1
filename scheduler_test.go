package rx_test

import (
	"context"
	"testing"
	"time"

	"github.com/destel/rx"
	"github.com/destel/rx/internal/th"
	"github.com/destel/rx/rxtest"
	"github.com/stretchr/testify/require"
)

func TestInterval(t *testing.T) {
	t.Run("virtual time", func(t *testing.T) {
		s := rxtest.NewTestScheduler()

		res := rxtest.Start(s, func() rx.Observable[int] {
			return rx.Interval(s, 100)
		})

		require.Equal(t, []rxtest.Recorded[int]{
			rxtest.OnNext(300, 0),
			rxtest.OnNext(400, 1),
			rxtest.OnNext(500, 2),
			rxtest.OnNext(600, 3),
			rxtest.OnNext(700, 4),
			rxtest.OnNext(800, 5),
			rxtest.OnNext(900, 6),
		}, res.Messages())
	})

	t.Run("with take", func(t *testing.T) {
		s := rxtest.NewTestScheduler()

		res := rxtest.Start(s, func() rx.Observable[int] {
			return rx.Take(rx.Interval(s, 50), 3)
		})

		require.Equal(t, []rxtest.Recorded[int]{
			rxtest.OnNext(250, 0),
			rxtest.OnNext(300, 1),
			rxtest.OnNext(350, 2),
			rxtest.OnCompleted[int](350),
		}, res.Messages())
	})

	t.Run("invalid period", func(t *testing.T) {
		th.ExpectPanic(t, func() {
			rx.Interval(rx.TimeScheduler, 0)
		})
	})

	t.Run("wall clock", func(t *testing.T) {
		th.ExpectNotHang(t, 5*time.Second, func() {
			values, err := rx.ToSlice(context.Background(), rx.Take(rx.Interval(rx.TimeScheduler, 10*time.Millisecond), 3))
			th.ExpectNoError(t, err)
			th.ExpectSlice(t, values, []int{0, 1, 2})
		})
	})
}

func TestTimer(t *testing.T) {
	t.Run("virtual time", func(t *testing.T) {
		s := rxtest.NewTestScheduler()

		res := rxtest.Start(s, func() rx.Observable[int] {
			return rx.Timer(s, 50)
		})

		require.Equal(t, []rxtest.Recorded[int]{
			rxtest.OnNext(250, 0),
			rxtest.OnCompleted[int](250),
		}, res.Messages())
	})

	t.Run("disposed before due", func(t *testing.T) {
		s := rxtest.NewTestScheduler()

		res := rxtest.Start(s, func() rx.Observable[int] {
			return rx.Timer(s, 5000)
		})

		th.ExpectValue(t, len(res.Messages()), 0)
	})
}

func TestTimeScheduler(t *testing.T) {
	ran := make(chan struct{})
	rx.TimeScheduler.Schedule(10*time.Millisecond, func() { close(ran) })
	th.ExpectClosedChan(t, ran, 2*time.Second)

	canceled := make(chan struct{})
	sub := rx.TimeScheduler.Schedule(50*time.Millisecond, func() { close(canceled) })
	sub.Dispose()
	th.ExpectValue(t, sub.IsDisposed(), true)

	time.Sleep(100 * time.Millisecond)
	select {
	case <-canceled:
		t.Errorf("disposed action has run")
	default:
	}
}
