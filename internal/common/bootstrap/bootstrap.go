package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/account-service/backend/internal/account/repository"
	"github.com/AlibekovAA/account-service/backend/internal/auth/audit"
	"github.com/AlibekovAA/account-service/backend/internal/auth/service"
	"github.com/AlibekovAA/account-service/backend/internal/auth/validation"
	"github.com/AlibekovAA/account-service/backend/internal/common/clock"
	"github.com/AlibekovAA/account-service/backend/internal/common/config"
	"github.com/AlibekovAA/account-service/backend/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/account-service/backend/internal/common/crypto"
	"github.com/AlibekovAA/account-service/backend/internal/common/db"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
	"github.com/AlibekovAA/account-service/backend/internal/common/resilience"
)

type AccountApp struct {
	Log          *logger.Logger
	Config       config.AccountConfig
	Pool         *pgxpool.Pool
	Repo         *repository.PgRepository
	Recorder     *audit.Recorder
	Auth         *service.AuthService
	Registration *service.RegistrationService
	Reset        *service.ResetFlow

	stopBackground context.CancelFunc
}

// NewAccountApp wires the account service. The pool metrics worker stops
// when ClosePool runs.
func NewAccountApp(ctx context.Context) (*AccountApp, error) {
	log, cfg, err := Load("account")
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := migrateUp(ctx, cfg.DatabaseURL, log); err != nil {
			return nil, err
		}
	}

	pool, err := db.NewPool(ctx, log, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	db.StartPoolMetrics(backgroundCtx, pool, constants.DBPoolMetricsInterval)

	hasher, err := commoncrypto.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		stopBackground()
		pool.Close()
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	repo := repository.NewPgRepository(
		pool,
		commoncrypto.NewUUIDGenerator(),
		repository.WithTimeout(cfg.RepositoryTimeout),
		repository.WithRetryConfig(db.DefaultRetryConfig),
		repository.WithLogger(log),
	)

	realClock := clock.NewRealClock()
	requestBreaker := newCircuitBreaker("account_repository", cfg.CircuitBreaker, realClock, log)
	auditBreaker := newCircuitBreaker("account_audit", cfg.CircuitBreaker, realClock, log)

	recorder := audit.NewRecorder(repo, log, auditBreaker, audit.Config{
		QueueSize: cfg.AuditQueueSize,
		Timeout:   cfg.AuditTimeout,
	})

	v := validation.New()

	app := &AccountApp{
		Log:            log,
		Config:         cfg,
		Pool:           pool,
		Repo:           repo,
		Recorder:       recorder,
		Auth:           service.NewAuthService(repo, hasher, recorder, v, requestBreaker, realClock, log),
		Registration:   service.NewRegistrationService(repo, hasher, v, requestBreaker, log),
		Reset:          service.NewResetFlow(repo, hasher, v, requestBreaker, log),
		stopBackground: stopBackground,
	}

	log.Infof("account service initialized (bcrypt cost %d, audit queue %d)", cfg.BcryptCost, cfg.AuditQueueSize)
	return app, nil
}

// StopRecorder flushes queued audit events. It runs before the pool closes.
func (a *AccountApp) StopRecorder(_ context.Context) error {
	a.Recorder.Stop()
	return nil
}

func (a *AccountApp) ClosePool(_ context.Context) error {
	a.stopBackground()
	a.Pool.Close()
	return nil
}

// Load initializes the logger from LOG_DIR/LOG_LEVEL and then reads the
// account configuration.
func Load(serviceName string) (*logger.Logger, config.AccountConfig, error) {
	log, err := logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, config.AccountConfig{}, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadAccountConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return nil, config.AccountConfig{}, err
	}

	return log, cfg, nil
}

func migrateUp(ctx context.Context, databaseURL string, log *logger.Logger) error {
	migrator, err := db.NewMigrator(databaseURL, log)
	if err != nil {
		return fmt.Errorf("failed to open migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func newCircuitBreaker(name string, cfg config.CircuitBreakerConfig, c clock.Clock, log *logger.Logger) *resilience.CircuitBreaker {
	return resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:   int32(cfg.Threshold),
		Timeout:     cfg.Timeout,
		ResetAfter:  cfg.Reset,
		Name:        name,
		Logger:      log,
		Clock:       c,
		IgnoreError: service.IsExpectedRepositoryError,
	})
}
