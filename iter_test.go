//go:build go1.23

package rx_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/destel/rx"
	"github.com/destel/rx/internal/th"
)

func TestFromSeq(t *testing.T) {
	res := collect(rx.FromSeq(slices.Values([]int{1, 2, 3})))
	th.ExpectSlice(t, res.values, []int{1, 2, 3})
	th.ExpectValue(t, res.completed, true)
}

func TestFromSeq2(t *testing.T) {
	seq := func(yield func(int, error) bool) {
		for i := 0; i < 5; i++ {
			if i == 3 {
				yield(0, errors.New("err3"))
				return
			}
			if !yield(i, nil) {
				return
			}
		}
	}

	res := collect(rx.FromSeq2(seq))
	th.ExpectSlice(t, res.values, []int{0, 1, 2})
	th.ExpectError(t, res.err, "err3")
}

func TestToSeq2(t *testing.T) {
	t.Run("correctness", func(t *testing.T) {
		var values []int
		for x, err := range rx.ToSeq2(context.Background(), rx.BufferWhile(rx.Range(0, 6), rx.CountGate(4))) {
			th.ExpectNoError(t, err)
			values = append(values, len(x))
		}
		th.ExpectSlice(t, values, []int{4, 2})
	})

	t.Run("early exit", func(t *testing.T) {
		var values []int
		for x, err := range rx.ToSeq2(context.Background(), rx.Range(0, 1000)) {
			th.ExpectNoError(t, err)
			if x == 3 {
				break
			}
			values = append(values, x)
		}
		th.ExpectSlice(t, values, []int{0, 1, 2})
	})
}
