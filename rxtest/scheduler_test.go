package rxtest

import (
	"testing"
	"time"

	"github.com/destel/rx/internal/th"
)

func TestTestScheduler(t *testing.T) {
	t.Run("runs actions in time order", func(t *testing.T) {
		s := NewTestScheduler()
		var log []int64

		for _, d := range []int64{30, 10, 20} {
			s.Schedule(time.Duration(d), func() {
				log = append(log, s.Clock())
			})
		}

		s.Start()

		th.ExpectSlice(t, log, []int64{10, 20, 30})
		th.ExpectValue(t, s.Clock(), int64(30))
	})

	t.Run("same tick keeps scheduling order", func(t *testing.T) {
		s := NewTestScheduler()
		var log []string

		s.ScheduleAbsolute(5, func() { log = append(log, "a") })
		s.ScheduleAbsolute(5, func() { log = append(log, "b") })
		s.ScheduleAbsolute(5, func() { log = append(log, "c") })

		s.Start()

		th.ExpectSlice(t, log, []string{"a", "b", "c"})
	})

	t.Run("disposed action never runs", func(t *testing.T) {
		s := NewTestScheduler()
		ran := false

		sub := s.Schedule(10, func() { ran = true })
		th.ExpectValue(t, s.Pending(), 1)

		sub.Dispose()
		sub.Dispose()
		th.ExpectValue(t, s.Pending(), 0)

		s.Start()
		th.ExpectValue(t, ran, false)
	})

	t.Run("advance", func(t *testing.T) {
		s := NewTestScheduler()
		var log []int64

		s.ScheduleAbsolute(10, func() { log = append(log, s.Clock()) })
		s.ScheduleAbsolute(50, func() { log = append(log, s.Clock()) })

		s.AdvanceTo(20)
		th.ExpectSlice(t, log, []int64{10})
		th.ExpectValue(t, s.Clock(), int64(20))
		th.ExpectValue(t, s.Now(), Epoch.Add(20))

		s.AdvanceBy(30)
		th.ExpectSlice(t, log, []int64{10, 50})
		th.ExpectValue(t, s.Clock(), int64(50))

		th.ExpectPanic(t, func() {
			s.AdvanceTo(10)
		})
	})

	t.Run("actions scheduled by actions", func(t *testing.T) {
		s := NewTestScheduler()
		var log []int64

		var tick func()
		tick = func() {
			log = append(log, s.Clock())
			if len(log) < 3 {
				s.Schedule(5, tick)
			}
		}
		s.Schedule(5, tick)

		s.Start()

		th.ExpectSlice(t, log, []int64{5, 10, 15})
	})

	t.Run("stop", func(t *testing.T) {
		s := NewTestScheduler()
		calls := 0

		var tick func()
		tick = func() {
			calls++
			if calls == 4 {
				s.Stop()
			}
			s.Schedule(1, tick)
		}
		s.Schedule(1, tick)

		th.ExpectNotHang(t, 1*time.Second, s.Start)
		th.ExpectValue(t, calls, 4)
		th.ExpectValue(t, s.Pending(), 1)
	})
}
