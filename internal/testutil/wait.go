// Package testutil holds timeout helpers shared by package tests.
package testutil

import (
	"testing"
	"time"
)

// DefaultTimeout bounds every wait in tests.
const DefaultTimeout = 5 * time.Second

// RequireReceive reads one value from ch or fails the test after timeout.
func RequireReceive[T any](t testing.TB, ch <-chan T, timeout time.Duration, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		var zero T
		t.Fatalf("timed out after %s waiting for %s", timeout, what)
		return zero
	}
}

// RequireNoReceive fails if ch yields a value within d.
func RequireNoReceive[T any](t testing.TB, ch <-chan T, d time.Duration, what string) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected %s: %v", what, v)
	case <-time.After(d):
	}
}

// Eventually polls cond until it holds or fails the test after timeout.
func Eventually(t testing.TB, timeout time.Duration, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	if !cond() {
		t.Fatalf("condition not met within %s: %s", timeout, what)
	}
}
