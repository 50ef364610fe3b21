package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/common/constants"
	commonerrors "github.com/AlibekovAA/account-service/backend/internal/common/errors"
)

type AccountConfig struct {
	HTTPPort          string
	DatabaseURL       string
	RequestTimeout    time.Duration
	RepositoryTimeout time.Duration
	BcryptCost        int
	AuditQueueSize    int
	AuditTimeout      time.Duration
	AutoMigrate       bool
	CircuitBreaker    CircuitBreakerConfig
	LogDir            string
	LogLevel          string
}

type CircuitBreakerConfig struct {
	Threshold int
	Timeout   time.Duration
	Reset     time.Duration
}

func LoadAccountConfig() (AccountConfig, error) {
	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return AccountConfig{}, err
	}

	cfg := AccountConfig{
		HTTPPort:          getEnv("ACCOUNT_HTTP_PORT", constants.DefaultAccountHTTPPort),
		DatabaseURL:       databaseURL,
		RequestTimeout:    getDurationEnv("ACCOUNT_REQUEST_TIMEOUT", constants.DefaultAccountRequestTimeout),
		RepositoryTimeout: getDurationEnv("ACCOUNT_REPOSITORY_TIMEOUT", constants.DefaultRepositoryTimeout),
		BcryptCost:        getIntEnv("ACCOUNT_BCRYPT_COST", constants.DefaultBcryptCost),
		AuditQueueSize:    getIntEnv("ACCOUNT_AUDIT_QUEUE_SIZE", constants.AuditQueueSize),
		AuditTimeout:      getDurationEnv("ACCOUNT_AUDIT_TIMEOUT", constants.AuditWriteTimeout),
		AutoMigrate:       getBoolEnv("ACCOUNT_AUTO_MIGRATE", false),
		CircuitBreaker: CircuitBreakerConfig{
			Threshold: getIntEnv("ACCOUNT_CB_THRESHOLD", constants.DefaultCircuitBreakerThreshold),
			Timeout:   getDurationEnv("ACCOUNT_CB_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
			Reset:     getDurationEnv("ACCOUNT_CB_RESET", constants.DefaultCircuitBreakerReset),
		},
		LogDir:   os.Getenv("LOG_DIR"),
		LogLevel: os.Getenv("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return AccountConfig{}, err
	}
	return cfg, nil
}

func (c AccountConfig) validate() error {
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		return fmt.Errorf("%w: ACCOUNT_HTTP_PORT=%q", commonerrors.ErrInvalidConfig, c.HTTPPort)
	}
	if c.AuditQueueSize <= 0 {
		return fmt.Errorf("%w: ACCOUNT_AUDIT_QUEUE_SIZE must be positive", commonerrors.ErrInvalidConfig)
	}
	if c.CircuitBreaker.Threshold <= 0 {
		return fmt.Errorf("%w: ACCOUNT_CB_THRESHOLD must be positive", commonerrors.ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 || c.RepositoryTimeout <= 0 || c.AuditTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", commonerrors.ErrInvalidConfig)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
