package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/common/clock"
	commonerrors "github.com/AlibekovAA/account-service/backend/internal/common/errors"
)

var errExpected = errors.New("expected outcome")

func newTestBreaker(c clock.Clock) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:   2,
		Timeout:     time.Second,
		ResetAfter:  10 * time.Second,
		Name:        "test",
		Clock:       c,
		IgnoreError: func(err error) bool { return errors.Is(err, errExpected) },
	})
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker(clock.NewMockClock(time.Unix(1000, 0)))
	boom := errors.New("connection refused")

	for i := 0; i < 2; i++ {
		if err := cb.Call(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("expected dependency error, got %v", err)
		}
	}

	err := cb.Call(context.Background(), func(context.Context) error {
		t.Fatal("call must not run while open")
		return nil
	})
	if !errors.Is(err, commonerrors.ErrCircuitOpen) {
		t.Fatalf("expected circuit open, got %v", err)
	}
}

func TestCircuitBreaker_ClosesAfterReset(t *testing.T) {
	mc := clock.NewMockClock(time.Unix(1000, 0))
	cb := newTestBreaker(mc)
	boom := errors.New("connection refused")

	_ = cb.Call(context.Background(), func(context.Context) error { return boom })
	_ = cb.Call(context.Background(), func(context.Context) error { return boom })
	if !cb.IsOpen() {
		t.Fatal("expected breaker to be open")
	}

	mc.Advance(11 * time.Second)
	if cb.IsOpen() {
		t.Fatal("expected breaker to close after reset period")
	}
}

func TestCircuitBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	cb := newTestBreaker(clock.NewMockClock(time.Unix(1000, 0)))

	for i := 0; i < 5; i++ {
		err := cb.Call(context.Background(), func(context.Context) error { return errExpected })
		if !errors.Is(err, errExpected) {
			t.Fatalf("expected ignored error to pass through, got %v", err)
		}
	}
	if cb.IsOpen() {
		t.Fatal("ignored errors must not open the breaker")
	}
}

func TestCircuitBreaker_FallbackOnFailure(t *testing.T) {
	cb := newTestBreaker(clock.NewMockClock(time.Unix(1000, 0)))
	fallbackCalls := 0

	err := cb.CallWithFallback(context.Background(),
		func(context.Context) error { return errors.New("timeout") },
		func() error { fallbackCalls++; return nil },
	)
	if err != nil {
		t.Fatalf("expected fallback result, got %v", err)
	}
	if fallbackCalls != 1 {
		t.Fatalf("expected fallback once, got %d", fallbackCalls)
	}
}

func TestCircuitBreaker_HalfOpenTrial(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("failed trial reopens", func(t *testing.T) {
		mc := clock.NewMockClock(time.Unix(1000, 0))
		cb := newTestBreaker(mc)
		_ = cb.Call(context.Background(), func(context.Context) error { return boom })
		_ = cb.Call(context.Background(), func(context.Context) error { return boom })

		mc.Advance(11 * time.Second)
		if err := cb.Call(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("expected trial call to run, got %v", err)
		}
		if !cb.IsOpen() {
			t.Fatal("failed trial must reopen the breaker")
		}
	})

	t.Run("successful trial closes", func(t *testing.T) {
		mc := clock.NewMockClock(time.Unix(1000, 0))
		cb := newTestBreaker(mc)
		_ = cb.Call(context.Background(), func(context.Context) error { return boom })
		_ = cb.Call(context.Background(), func(context.Context) error { return boom })

		mc.Advance(11 * time.Second)
		if err := cb.Call(context.Background(), func(context.Context) error { return nil }); err != nil {
			t.Fatalf("trial call failed: %v", err)
		}

		_ = cb.Call(context.Background(), func(context.Context) error { return boom })
		if cb.IsOpen() {
			t.Fatal("one failure after closing must not reopen a threshold-2 breaker")
		}
	})
}

func TestCircuitBreaker_CallerCancelDoesNotTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	t.Run("closed", func(t *testing.T) {
		cb := newTestBreaker(clock.NewMockClock(time.Unix(1000, 0)))
		for i := 0; i < 5; i++ {
			err := cb.Call(ctx, func(c context.Context) error { return c.Err() })
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected cancellation to pass through, got %v", err)
			}
		}
		if cb.IsOpen() {
			t.Fatal("caller cancellation must not open the breaker")
		}
	})

	t.Run("half-open keeps trial slot free", func(t *testing.T) {
		mc := clock.NewMockClock(time.Unix(1000, 0))
		cb := newTestBreaker(mc)
		boom := errors.New("connection refused")
		_ = cb.Call(context.Background(), func(context.Context) error { return boom })
		_ = cb.Call(context.Background(), func(context.Context) error { return boom })

		mc.Advance(11 * time.Second)
		_ = cb.Call(ctx, func(c context.Context) error { return c.Err() })
		if cb.IsOpen() {
			t.Fatal("a cancelled trial must leave the breaker ready for the next one")
		}
		if err := cb.Call(context.Background(), func(context.Context) error { return nil }); err != nil {
			t.Fatalf("expected next trial to run, got %v", err)
		}
	})

	t.Run("deadline still counts", func(t *testing.T) {
		cb := newTestBreaker(clock.NewMockClock(time.Unix(1000, 0)))
		for i := 0; i < 2; i++ {
			_ = cb.Call(context.Background(), func(context.Context) error { return context.DeadlineExceeded })
		}
		if !cb.IsOpen() {
			t.Fatal("deadline exceeded must count as a failure")
		}
	})
}
