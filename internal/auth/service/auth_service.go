package service

import (
	"context"
	"errors"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/account/repository"
	"github.com/AlibekovAA/account-service/backend/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/account-service/backend/internal/common/crypto"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
	"github.com/AlibekovAA/account-service/backend/internal/common/resilience"
)

type AuthService struct {
	repo           repository.Repository
	hasher         commoncrypto.PasswordHasher
	audit          LoginRecorder
	validator      Validator
	circuitBreaker *resilience.CircuitBreaker
	clock          clock.Clock
	log            *logger.Logger
}

func NewAuthService(
	repo repository.Repository,
	hasher commoncrypto.PasswordHasher,
	audit LoginRecorder,
	validator Validator,
	circuitBreaker *resilience.CircuitBreaker,
	clock clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:           repo,
		hasher:         hasher,
		audit:          audit,
		validator:      validator,
		circuitBreaker: circuitBreaker,
		clock:          clock,
		log:            log,
	}
}

type LoginInput struct {
	Identifier string `validate:"required,max=254"`
	Password   string `validate:"required,maxbytes=72"`
}

// Login verifies the credentials and returns the matching account. A
// missing account and a wrong password are reported as different errors.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (domain.Account, error) {
	kind := domain.ClassifyIdentifier(input.Identifier)
	fields := logger.Fields{"identifier_kind": kind.String()}

	s.log.WithFields(ctx, withAction(fields, "login_attempt")).Info("login attempt")

	if err := s.validator.Struct(input); err != nil {
		observeLogin("invalid")
		s.log.WithFields(ctx, withAction(fields, "login_validation_failed")).Warnf("login validation failed: %v", err)
		return domain.Account{}, err
	}

	account, err := lookupAccount(ctx, s.repo, s.circuitBreaker, input.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			observeLogin("not_found")
			s.log.WithFields(ctx, withAction(fields, "login_not_found")).Warn("login failed: account not found")
			return domain.Account{}, ErrAccountNotFound
		}
		observeLogin("error")
		if isCircuitOpen(err) {
			s.log.WithFields(ctx, withAction(fields, "login_circuit_open")).Warn("login rejected: account store unavailable")
			return domain.Account{}, ErrServiceUnavailable.WithCause(err)
		}
		s.log.WithFields(ctx, withAction(fields, "login_lookup_failed")).Errorf("login failed: %v", err)
		return domain.Account{}, newInternalError("LOGIN_FAILED", "login failed", err)
	}

	fields["account_id"] = string(account.ID)

	start := time.Now()
	ok := s.hasher.Verify(input.Password, account.PasswordHash)
	observeHashDuration(start)
	if !ok {
		observeLogin("invalid_credential")
		s.log.WithFields(ctx, withAction(fields, "login_invalid_credential")).Warn("login failed: incorrect password")
		return domain.Account{}, ErrInvalidCredential
	}

	at := s.clock.Now()
	if s.audit != nil {
		s.audit.RecordLogin(account.ID, at)
	}
	account.LastLoginAt = &at

	observeLogin("success")
	s.log.WithFields(ctx, withAction(fields, "login_success")).Info("login success")

	return account, nil
}

func withAction(fields logger.Fields, action string) logger.Fields {
	out := make(logger.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["action"] = action
	return out
}
