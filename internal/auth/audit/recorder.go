package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/account-service/backend/internal/common/errors"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
	"github.com/AlibekovAA/account-service/backend/internal/common/resilience"
	"github.com/AlibekovAA/account-service/backend/internal/observability/metrics"
)

// Store is the subset of the account repository the recorder writes to.
type Store interface {
	UpdateLastLogin(ctx context.Context, id domain.ID, at time.Time) error
	RecordLogin(ctx context.Context, entry domain.LoginHistoryEntry) error
}

type Config struct {
	QueueSize  int
	Timeout    time.Duration
	FlushEvery time.Duration
	BatchSize  int
}

type event struct {
	accountID domain.ID
	at        time.Time
}

// Recorder writes login audit records off the request path. Events are
// queued without blocking and written by a single worker; failures are
// logged and counted but never reach the caller.
type Recorder struct {
	ctx            context.Context
	cancel         context.CancelFunc
	store          Store
	log            *logger.Logger
	circuitBreaker *resilience.CircuitBreaker
	cfg            Config
	queue          chan event
	mu             sync.RWMutex
	stopped        bool
	stopOnce       sync.Once
	wg             sync.WaitGroup
}

func NewRecorder(store Store, log *logger.Logger, circuitBreaker *resilience.CircuitBreaker, cfg Config) *Recorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = constants.AuditQueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.AuditWriteTimeout
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = constants.AuditFlushEvery
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = constants.AuditBatchSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Recorder{
		ctx:            ctx,
		cancel:         cancel,
		store:          store,
		log:            log,
		circuitBreaker: circuitBreaker,
		cfg:            cfg,
		queue:          make(chan event, cfg.QueueSize),
	}

	r.wg.Add(1)
	go r.run()

	return r
}

func (r *Recorder) RecordLogin(accountID domain.ID, at time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		r.drop(accountID, "audit_recorder_stopped")
		return
	}

	select {
	case r.queue <- event{accountID: accountID, at: at}:
		metrics.LoginAuditQueueDepth.Set(float64(len(r.queue)))
	default:
		r.drop(accountID, "audit_enqueue_dropped")
	}
}

func (r *Recorder) drop(accountID domain.ID, action string) {
	metrics.LoginAuditEventsTotal.WithLabelValues("dropped").Inc()
	r.log.WithFields(context.Background(), logger.Fields{
		"account_id": accountID,
		"action":     action,
	}).Warn("login audit event dropped")
}

// Stop writes every queued event and waits for the worker to exit.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		r.mu.Unlock()

		r.cancel()
		r.wg.Wait()
	})
}

func (r *Recorder) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.FlushEvery)
	defer ticker.Stop()

	pending := make([]event, 0, r.cfg.BatchSize)

	for {
		select {
		case <-r.ctx.Done():
			pending = r.drain(pending)
			r.flush(pending)
			return
		case ev := <-r.queue:
			pending = append(pending, ev)
			if len(pending) >= r.cfg.BatchSize {
				pending = r.flush(pending)
			}
		case <-ticker.C:
			pending = r.flush(pending)
		}
	}
}

func (r *Recorder) drain(pending []event) []event {
	for {
		select {
		case ev := <-r.queue:
			pending = append(pending, ev)
		default:
			return pending
		}
	}
}

func (r *Recorder) flush(pending []event) []event {
	metrics.LoginAuditQueueDepth.Set(float64(len(r.queue)))
	for _, ev := range pending {
		metrics.LoginAuditEventsTotal.WithLabelValues(r.write(ev)).Inc()
	}
	return pending[:0]
}

// write stores one event and returns its outcome: recorded, partial when
// only the last-login update failed, or failed/skipped when the history
// row could not be written.
func (r *Recorder) write(ev event) string {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
	defer cancel()

	fields := logger.Fields{"account_id": ev.accountID}
	outcome := "recorded"

	if err := r.call(ctx, func(callCtx context.Context) error {
		return r.store.UpdateLastLogin(callCtx, ev.accountID, ev.at)
	}); err != nil {
		r.warn(ctx, fields, "audit_last_login_failed", err)
		outcome = "partial"
	}

	if err := r.call(ctx, func(callCtx context.Context) error {
		return r.store.RecordLogin(callCtx, domain.LoginHistoryEntry{AccountID: ev.accountID, LoginAt: ev.at})
	}); err != nil {
		r.warn(ctx, fields, "audit_history_failed", err)
		if errors.Is(err, commonerrors.ErrCircuitOpen) {
			return "skipped"
		}
		return "failed"
	}

	return outcome
}

func (r *Recorder) call(ctx context.Context, fn func(context.Context) error) error {
	if r.circuitBreaker == nil {
		return fn(ctx)
	}
	return r.circuitBreaker.Call(ctx, fn)
}

func (r *Recorder) warn(ctx context.Context, fields logger.Fields, action string, err error) {
	entry := logger.Fields{"action": action}
	for k, v := range fields {
		entry[k] = v
	}
	r.log.WithFields(ctx, entry).Warnf("login audit write failed: %v", err)
}
