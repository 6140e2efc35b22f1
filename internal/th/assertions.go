// Package th provides basic test helpers.
package th

import (
	"testing"
	"time"
)

func ExpectValue[A comparable](t *testing.T, actual A, expected A) {
	t.Helper()
	if expected != actual {
		t.Errorf("expected %v, got %v", expected, actual)
	}
}

func ExpectSlice[A comparable](t *testing.T, actual []A, expected []A) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("expected %v, got %v", expected, actual)
		return
	}

	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf("expected %v, got %v", expected, actual)
			return
		}
	}
}

// ExpectBatches checks a slice of batches item by item.
func ExpectBatches[A comparable](t *testing.T, actual [][]A, expected [][]A) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("expected %d batches %v, got %d batches %v", len(expected), expected, len(actual), actual)
		return
	}

	for i := range expected {
		ExpectSlice(t, actual[i], expected[i])
	}
}

func ExpectClosedChan[A any](t *testing.T, ch <-chan A, waitFor time.Duration) {
	t.Helper()
	select {
	case x, ok := <-ch:
		if ok {
			t.Errorf("expected channel to be closed, but got %v", x)
		}
	case <-time.After(waitFor):
		t.Errorf("channel was not closed after %v", waitFor)
	}
}

func ExpectError(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error '%s', got nil", message)
		return
	}

	if err.Error() != message {
		t.Errorf("expected error '%s', got '%s'", message, err.Error())
	}
}

func ExpectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("unexpected error '%v'", err)
	}
}

func ExpectPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	f()
}

func ExpectNotHang(t *testing.T, waitFor time.Duration, f func()) {
	t.Helper()
	if !finishesWithin(waitFor, f) {
		t.Errorf("test hanged")
	}
}

func ExpectHang(t *testing.T, waitFor time.Duration, f func()) {
	t.Helper()
	if finishesWithin(waitFor, f) {
		t.Errorf("expected to hang, but finished")
	}
}

func finishesWithin(waitFor time.Duration, f func()) bool {
	done := make(chan struct{})

	go func() {
		defer close(done)
		f()
	}()

	select {
	case <-done:
		return true
	case <-time.After(waitFor):
		return false
	}
}
