package rx_test

import (
	"testing"
	"time"

	"github.com/destel/rx"
	"github.com/destel/rx/internal/th"
	"github.com/destel/rx/rxtest"
)

func callGate(gate func() bool, n int) []bool {
	res := make([]bool, n)
	for i := range res {
		res[i] = gate()
	}
	return res
}

func TestCountGate(t *testing.T) {
	th.ExpectPanic(t, func() {
		rx.CountGate(0)
	})

	for _, n := range []int{1, 2, 3} {
		t.Run(th.Name("n", n), func(t *testing.T) {
			gate := rx.CountGate(n)
			res := callGate(gate, 3*n)

			for i, v := range res {
				th.ExpectValue(t, v, (i+1)%n != 0)
			}
		})
	}
}

func TestTimeGate(t *testing.T) {
	s := rxtest.NewTestScheduler()
	gate := rx.TimeGate(s, 10)

	th.ExpectValue(t, gate(), true) // opens the window at 0

	s.AdvanceTo(9)
	th.ExpectValue(t, gate(), true)

	s.AdvanceTo(10)
	th.ExpectValue(t, gate(), false) // window has ended

	s.AdvanceTo(15)
	th.ExpectValue(t, gate(), true) // new window starts at 15

	s.AdvanceTo(24)
	th.ExpectValue(t, gate(), true)

	s.AdvanceTo(100)
	th.ExpectValue(t, gate(), false)
}

func TestCountOrTimeGate(t *testing.T) {
	th.ExpectPanic(t, func() {
		rx.CountOrTimeGate(rx.TimeScheduler, 0, time.Second)
	})

	t.Run("count limit", func(t *testing.T) {
		s := rxtest.NewTestScheduler()
		gate := rx.CountOrTimeGate(s, 3, 100)

		th.ExpectSlice(t, callGate(gate, 6), []bool{true, true, false, true, true, false})
	})

	t.Run("time limit restarts count", func(t *testing.T) {
		s := rxtest.NewTestScheduler()
		gate := rx.CountOrTimeGate(s, 3, 100)

		th.ExpectValue(t, gate(), true)
		s.AdvanceTo(100)
		th.ExpectValue(t, gate(), false)

		// both limits start over
		th.ExpectSlice(t, callGate(gate, 3), []bool{true, true, false})
	})
}
