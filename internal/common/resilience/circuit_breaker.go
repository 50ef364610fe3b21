package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/account-service/backend/internal/common/clock"
	commonerrors "github.com/AlibekovAA/account-service/backend/internal/common/errors"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
	"github.com/AlibekovAA/account-service/backend/internal/observability/metrics"
)

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

// CircuitBreaker stops calling a failing dependency. After Threshold
// consecutive failures it rejects calls for ResetAfter, then lets a single
// trial call through: success closes it, failure opens it again.
type CircuitBreaker struct {
	mu       sync.Mutex
	state    state
	failures int32
	openedAt time.Time
	trial    bool

	threshold  int32
	timeout    time.Duration
	resetAfter time.Duration
	name       string
	log        *logger.Logger
	clock      clock.Clock
	ignore     func(error) bool
}

type CircuitBreakerConfig struct {
	Threshold  int32
	Timeout    time.Duration
	ResetAfter time.Duration
	Name       string
	Logger     *logger.Logger
	Clock      clock.Clock
	// IgnoreError reports errors that are expected outcomes rather than
	// dependency failures. pgx.ErrNoRows is always ignored.
	IgnoreError func(error) bool
}

func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	c := config.Clock
	if c == nil {
		c = clock.NewRealClock()
	}
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = 1
	}
	cb := &CircuitBreaker{
		threshold:  threshold,
		timeout:    config.Timeout,
		resetAfter: config.ResetAfter,
		name:       config.Name,
		log:        config.Logger,
		clock:      c,
		ignore:     config.IgnoreError,
	}
	cb.publish()
	return cb
}

// IsOpen reports whether a call made now would be rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case stateOpen:
		return cb.clock.Since(cb.openedAt) < cb.resetAfter
	case stateHalfOpen:
		return cb.trial
	default:
		return false
	}
}

func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	return cb.CallWithFallback(ctx, fn, nil)
}

func (cb *CircuitBreaker) CallWithFallback(ctx context.Context, fn func(context.Context) error, fallback func() error) error {
	if !cb.allow() {
		cb.warnf("circuit breaker [%s]: circuit is open, rejecting call", cb.name)
		if fallback != nil {
			return fallback()
		}
		return commonerrors.ErrCircuitOpen
	}

	callCtx := ctx
	if cb.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	if errors.Is(err, context.Canceled) {
		// The caller went away; the dependency's health is unknown.
		cb.release()
		return err
	}
	if err != nil && cb.isFailure(err) {
		cb.onFailure()
		if fallback != nil {
			return fallback()
		}
		return err
	}

	cb.onSuccess()
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case stateOpen:
		if cb.clock.Since(cb.openedAt) < cb.resetAfter {
			return false
		}
		cb.state = stateHalfOpen
		cb.trial = true
		cb.publishLocked()
		return true
	case stateHalfOpen:
		if cb.trial {
			return false
		}
		cb.trial = true
		return true
	default:
		return true
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != stateClosed {
		cb.infof("circuit breaker [%s]: closed", cb.name)
	}
	cb.state = stateClosed
	cb.failures = 0
	cb.trial = false
	cb.publishLocked()
}

func (cb *CircuitBreaker) release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.trial = false
}

func (cb *CircuitBreaker) onFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.name != "" {
		metrics.CircuitBreakerFailures.WithLabelValues(cb.name).Inc()
	}

	cb.trial = false
	cb.failures++
	if cb.state == stateHalfOpen || cb.failures >= cb.threshold {
		if cb.state != stateOpen {
			cb.warnf("circuit breaker [%s]: opened after %d failures", cb.name, cb.failures)
		}
		cb.state = stateOpen
		cb.openedAt = cb.clock.Now()
	}
	cb.publishLocked()
}

func (cb *CircuitBreaker) isFailure(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	return cb.ignore == nil || !cb.ignore(err)
}

func (cb *CircuitBreaker) publish() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.publishLocked()
}

func (cb *CircuitBreaker) publishLocked() {
	if cb.name != "" {
		metrics.CircuitBreakerState.WithLabelValues(cb.name).Set(float64(cb.state))
	}
}

func (cb *CircuitBreaker) warnf(format string, args ...any) {
	if cb.log != nil {
		cb.log.Warnf(format, args...)
	}
}

func (cb *CircuitBreaker) infof(format string, args ...any) {
	if cb.log != nil {
		cb.log.Infof(format, args...)
	}
}
