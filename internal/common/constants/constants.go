package constants

import "time"

const (
	FullNameMinLength = 2
	UsernameMinLength = 3
	UsernameMaxLength = 20
	PasswordMinLength = 1
	PasswordMaxLength = 72
	ResetPasswordMin  = 8

	DefaultMaxRequestSize = 1 << 20

	DefaultBcryptCost = 12

	AuditQueueSize    = 1024
	AuditFlushEvery   = 500 * time.Millisecond
	AuditBatchSize    = 64
	AuditWriteTimeout = 3 * time.Second

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	DefaultRepositoryTimeout = 3 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerMaxHeaderBytes    = 16 << 10

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAccountHTTPPort       = "8081"
	DefaultAccountRequestTimeout = 5 * time.Second

	DefaultCircuitBreakerThreshold = 50
	DefaultCircuitBreakerTimeout   = 5 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
