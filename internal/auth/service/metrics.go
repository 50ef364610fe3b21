package service

import (
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/observability/metrics"
)

func observeLogin(result string) {
	metrics.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

func observeRegistration(result string) {
	metrics.RegistrationsTotal.WithLabelValues(result).Inc()
}

func observeReset(phase Phase, result string) {
	metrics.PasswordResetsTotal.WithLabelValues(phase.String(), result).Inc()
}

func observeHashDuration(start time.Time) {
	metrics.PasswordHashDurationSeconds.Observe(time.Since(start).Seconds())
}
