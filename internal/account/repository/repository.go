package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
)

// Repository is the only writer of account and login history rows.
type Repository interface {
	FindByIdentifier(ctx context.Context, identifier string) (domain.Account, error)
	Insert(ctx context.Context, candidate domain.Candidate) (domain.Account, error)
	UpdatePasswordHash(ctx context.Context, email string, hash string) error
	UpdateLastLogin(ctx context.Context, id domain.ID, at time.Time) error
	RecordLogin(ctx context.Context, entry domain.LoginHistoryEntry) error
}

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrConflict        = errors.New("account already exists")
	ErrUsernameTaken   = fmt.Errorf("%w: username taken", ErrConflict)
	ErrEmailTaken      = fmt.Errorf("%w: email taken", ErrConflict)
)
