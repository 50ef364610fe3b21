package service

import (
	"context"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/account/repository"
	"github.com/AlibekovAA/account-service/backend/internal/common/resilience"
)

type Validator interface {
	Struct(s any) error
}

type LoginRecorder interface {
	RecordLogin(accountID domain.ID, at time.Time)
}

func callRepository(ctx context.Context, cb *resilience.CircuitBreaker, fn func(context.Context) error) error {
	if cb == nil {
		return fn(ctx)
	}
	return cb.Call(ctx, fn)
}

func lookupAccount(ctx context.Context, repo repository.Repository, cb *resilience.CircuitBreaker, identifier string) (domain.Account, error) {
	var account domain.Account
	err := callRepository(ctx, cb, func(ctx context.Context) error {
		var err error
		account, err = repo.FindByIdentifier(ctx, identifier)
		return err
	})
	return account, err
}
