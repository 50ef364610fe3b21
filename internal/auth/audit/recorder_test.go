package audit

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
	"github.com/AlibekovAA/account-service/backend/internal/common/resilience"
	"github.com/AlibekovAA/account-service/backend/internal/observability/metrics"
)

type mockStore struct {
	mu         sync.Mutex
	lastLogins map[domain.ID]time.Time
	history    []domain.LoginHistoryEntry
	updateErr  error
	recordErr  error
	block      chan struct{}
}

func newMockStore() *mockStore {
	return &mockStore{lastLogins: make(map[domain.ID]time.Time)}
}

func (m *mockStore) UpdateLastLogin(ctx context.Context, id domain.ID, at time.Time) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastLogins[id] = at
	return nil
}

func (m *mockStore) RecordLogin(ctx context.Context, entry domain.LoginHistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.history = append(m.history, entry)
	return nil
}

func (m *mockStore) historyLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, "account-test", "ERROR")
}

func TestRecorder_StopFlushesQueuedEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newMockStore()
	r := NewRecorder(store, testLogger(), nil, Config{QueueSize: 16, FlushEvery: time.Hour, BatchSize: 100})

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	r.RecordLogin("acc-1", at)
	r.RecordLogin("acc-2", at.Add(time.Minute))
	r.Stop()

	if got := store.historyLen(); got != 2 {
		t.Fatalf("expected 2 history entries, got %d", got)
	}
	if !store.lastLogins["acc-2"].Equal(at.Add(time.Minute)) {
		t.Fatalf("unexpected last login for acc-2: %v", store.lastLogins["acc-2"])
	}
}

func TestRecorder_BatchSizeTriggersWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newMockStore()
	r := NewRecorder(store, testLogger(), nil, Config{QueueSize: 16, FlushEvery: time.Hour, BatchSize: 1})
	defer r.Stop()

	r.RecordLogin("acc-1", time.Now())

	deadline := time.Now().Add(2 * time.Second)
	for store.historyLen() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected event to be written without waiting for stop")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRecorder_FullQueueDropsWithoutBlocking(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newMockStore()
	store.block = make(chan struct{})
	r := NewRecorder(store, testLogger(), nil, Config{QueueSize: 1, FlushEvery: time.Hour, BatchSize: 1})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			r.RecordLogin("acc-1", time.Now())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RecordLogin blocked on a full queue")
	}

	close(store.block)
	r.Stop()

	if got := store.historyLen(); got >= 50 {
		t.Fatalf("expected some events to be dropped, got %d written", got)
	}
}

func TestRecorder_FailuresAreSwallowed(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newMockStore()
	store.updateErr = errors.New("connection refused")
	store.recordErr = errors.New("connection refused")

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  1,
		Timeout:    time.Second,
		ResetAfter: time.Minute,
		Name:       "audit-test",
	})
	r := NewRecorder(store, testLogger(), cb, Config{QueueSize: 4, FlushEvery: time.Hour, BatchSize: 10})

	r.RecordLogin("acc-1", time.Now())
	r.RecordLogin("acc-2", time.Now())
	r.Stop()

	if got := store.historyLen(); got != 0 {
		t.Fatalf("expected no history entries, got %d", got)
	}
	if !cb.IsOpen() {
		t.Fatal("expected breaker to open after repeated failures")
	}
}

func TestRecorder_RecordAfterStopIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newMockStore()
	r := NewRecorder(store, testLogger(), nil, Config{QueueSize: 4})
	r.Stop()
	r.Stop()

	r.RecordLogin("acc-1", time.Now())

	if got := store.historyLen(); got != 0 {
		t.Fatalf("expected no writes after stop, got %d", got)
	}
}

func TestRecorder_OneOutcomePerEvent(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := newMockStore()
	store.updateErr = errors.New("deadlock detected")
	r := NewRecorder(store, testLogger(), nil, Config{QueueSize: 4, FlushEvery: time.Hour, BatchSize: 10})

	outcomes := func() map[string]float64 {
		out := make(map[string]float64)
		for _, result := range []string{"recorded", "partial", "failed", "skipped"} {
			out[result] = testutil.ToFloat64(metrics.LoginAuditEventsTotal.WithLabelValues(result))
		}
		return out
	}
	before := outcomes()

	r.RecordLogin("acc-1", time.Now())
	r.Stop()

	after := outcomes()
	if got := after["partial"] - before["partial"]; got != 1 {
		t.Fatalf("expected one partial outcome, got %v", got)
	}
	for _, result := range []string{"recorded", "failed", "skipped"} {
		if got := after[result] - before[result]; got != 0 {
			t.Errorf("expected no %s outcome, got %v", result, got)
		}
	}
	if got := store.historyLen(); got != 1 {
		t.Fatalf("expected history row despite last-login failure, got %d", got)
	}
}

func TestRecorder_WriteOutcome(t *testing.T) {
	defer goleak.VerifyNone(t)

	boom := errors.New("connection reset")
	tests := []struct {
		name      string
		updateErr error
		recordErr error
		want      string
	}{
		{name: "both succeed", want: "recorded"},
		{name: "last login fails", updateErr: boom, want: "partial"},
		{name: "history fails", recordErr: boom, want: "failed"},
		{name: "both fail", updateErr: boom, recordErr: boom, want: "failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			store.updateErr = tt.updateErr
			store.recordErr = tt.recordErr
			r := NewRecorder(store, testLogger(), nil, Config{QueueSize: 1, FlushEvery: time.Hour})
			defer r.Stop()

			if got := r.write(event{accountID: "acc-1", at: time.Now()}); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
