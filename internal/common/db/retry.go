package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/sethvargo/go-retry"

	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
	"github.com/AlibekovAA/account-service/backend/internal/observability/metrics"
)

type RetryConfig struct {
	MaxAttempts  uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

func (c RetryConfig) backoff() retry.Backoff {
	b := retry.NewExponential(c.InitialDelay)
	b = retry.WithCappedDuration(c.MaxDelay, b)
	if c.MaxAttempts > 0 {
		b = retry.WithMaxRetries(c.MaxAttempts-1, b)
	}
	return b
}

func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "08000", "08003", "08006", "08001", "08004", "08007", "08P01":
			return true
		case "40001", "40P01":
			return true
		case "55P03":
			return true
		}
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	return pgconn.SafeToRetry(err)
}

// RetryWithBackoff runs operation until it succeeds, fails with a
// non-retryable error, or the attempts are exhausted.
func RetryWithBackoff(ctx context.Context, log *logger.Logger, name string, config RetryConfig, operation func(context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, config.backoff(), func(ctx context.Context) error {
		attempt++
		err := operation(ctx)
		if err == nil {
			if attempt > 1 && log != nil {
				log.Infof("database operation %s succeeded after %d attempts", name, attempt)
			}
			return nil
		}
		if !IsRetryableError(err) {
			return err
		}
		metrics.DBRetryAttempts.WithLabelValues(name).Inc()
		if log != nil {
			log.Warnf("database operation %s failed (attempt %d/%d): %v", name, attempt, config.MaxAttempts, err)
		}
		return retry.RetryableError(err)
	})
}
