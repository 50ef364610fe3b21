package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/account-service/backend/internal/common/crypto"
	"github.com/AlibekovAA/account-service/backend/internal/common/db"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
)

const (
	usernameConstraint = "accounts_username_key"
	emailConstraint    = "accounts_email_lower_key"

	selectAccount = `SELECT id::text, full_name, username, email, password_hash, last_login_at, created_at FROM accounts`
)

type Option func(*PgRepository)

func WithTimeout(timeout time.Duration) Option {
	return func(r *PgRepository) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

func WithRetryConfig(cfg db.RetryConfig) Option {
	return func(r *PgRepository) {
		r.retry = cfg
	}
}

func WithLogger(log *logger.Logger) Option {
	return func(r *PgRepository) {
		r.log = log
	}
}

type PgRepository struct {
	pool    *pgxpool.Pool
	ids     commoncrypto.IDGenerator
	timeout time.Duration
	retry   db.RetryConfig
	log     *logger.Logger
}

func NewPgRepository(pool *pgxpool.Pool, ids commoncrypto.IDGenerator, opts ...Option) *PgRepository {
	r := &PgRepository{
		pool:    pool,
		ids:     ids,
		timeout: constants.DefaultRepositoryTimeout,
		retry:   db.DefaultRetryConfig,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PgRepository) FindByIdentifier(ctx context.Context, identifier string) (domain.Account, error) {
	if domain.ClassifyIdentifier(identifier) == domain.IdentifierEmail {
		return r.findOne(ctx, "find account by email", selectAccount+` WHERE lower(email) = lower($1)`, identifier)
	}
	return r.findOne(ctx, "find account by username", selectAccount+` WHERE username = $1`, identifier)
}

func (r *PgRepository) findOne(ctx context.Context, operation, query string, arg any) (domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var account domain.Account
	err := db.RetryWithBackoff(ctx, r.log, operation, r.retry, func(ctx context.Context) error {
		start := time.Now()
		row := r.pool.QueryRow(ctx, query, arg)
		err := row.Scan(
			&account.ID,
			&account.FullName,
			&account.Username,
			&account.Email,
			&account.PasswordHash,
			&account.LastLoginAt,
			&account.CreatedAt,
		)
		return db.HandleQueryError(err, ErrAccountNotFound, operation, start)
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

func (r *PgRepository) Insert(ctx context.Context, candidate domain.Candidate) (domain.Account, error) {
	const operation = "insert account"

	id, err := r.ids.NewID()
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to %s: %w", operation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	account := domain.Account{
		ID:           domain.ID(id),
		FullName:     candidate.FullName,
		Username:     candidate.Username,
		Email:        candidate.Email,
		PasswordHash: candidate.PasswordHash,
	}

	start := time.Now()
	err = r.pool.QueryRow(
		ctx,
		`INSERT INTO accounts (id, full_name, username, email, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		id,
		candidate.FullName,
		candidate.Username,
		candidate.Email,
		candidate.PasswordHash,
	).Scan(&account.CreatedAt)
	if constraint, ok := db.UniqueViolation(err); ok {
		db.MeasureQueryDuration(operation, start)
		switch constraint {
		case usernameConstraint:
			return domain.Account{}, ErrUsernameTaken
		case emailConstraint:
			return domain.Account{}, ErrEmailTaken
		default:
			return domain.Account{}, ErrConflict
		}
	}
	if err := db.HandleExecError(err, operation, start); err != nil {
		return domain.Account{}, err
	}

	return account, nil
}

func (r *PgRepository) UpdatePasswordHash(ctx context.Context, email string, hash string) error {
	const operation = "update password hash"

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE accounts SET password_hash = $1 WHERE lower(email) = lower($2)`,
		hash,
		email,
	)
	if err := db.HandleExecError(err, operation, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PgRepository) UpdateLastLogin(ctx context.Context, id domain.ID, at time.Time) error {
	const operation = "update account last login"

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE accounts SET last_login_at = $1 WHERE id = $2`,
		at,
		string(id),
	)
	if err := db.HandleExecError(err, operation, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *PgRepository) RecordLogin(ctx context.Context, entry domain.LoginHistoryEntry) error {
	const operation = "record login history"

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO login_history (account_id, login_at) VALUES ($1, $2)`,
		string(entry.AccountID),
		entry.LoginAt,
	)
	return db.HandleExecError(err, operation, start)
}
