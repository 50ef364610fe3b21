package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AlibekovAA/account-service/backend/internal/account/domain"
	"github.com/AlibekovAA/account-service/backend/internal/account/repository"
	commoncrypto "github.com/AlibekovAA/account-service/backend/internal/common/crypto"
	"github.com/AlibekovAA/account-service/backend/internal/common/logger"
	"github.com/AlibekovAA/account-service/backend/internal/common/resilience"
)

type RegistrationService struct {
	repo           repository.Repository
	hasher         commoncrypto.PasswordHasher
	validator      Validator
	circuitBreaker *resilience.CircuitBreaker
	log            *logger.Logger
}

func NewRegistrationService(
	repo repository.Repository,
	hasher commoncrypto.PasswordHasher,
	validator Validator,
	circuitBreaker *resilience.CircuitBreaker,
	log *logger.Logger,
) *RegistrationService {
	return &RegistrationService{
		repo:           repo,
		hasher:         hasher,
		validator:      validator,
		circuitBreaker: circuitBreaker,
		log:            log,
	}
}

type RegisterInput struct {
	FullName        string `validate:"required,min=2,max=100"`
	Username        string `validate:"required,min=3,max=20,username"`
	Email           string `validate:"required,email,max=254"`
	Password        string `validate:"required,maxbytes=72"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

// Register creates an account. Uniqueness is decided by the store, so two
// concurrent registrations for the same username or email yield exactly one
// account and one REGISTRATION_CONFLICT.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	fields := logger.Fields{"username": input.Username}

	s.log.WithFields(ctx, withAction(fields, "register_attempt")).Info("register attempt")

	if err := s.validator.Struct(input); err != nil {
		observeRegistration("invalid")
		s.log.WithFields(ctx, withAction(fields, "register_validation_failed")).Warnf("register validation failed: %v", err)
		return domain.Account{}, err
	}

	start := time.Now()
	hash, err := s.hasher.Hash(input.Password)
	observeHashDuration(start)
	if err != nil {
		observeRegistration("error")
		s.log.WithFields(ctx, withAction(fields, "register_hash_failed")).Errorf("register failed: password hash error: %v", err)
		return domain.Account{}, ErrRegistrationFailed.WithCause(err)
	}

	candidate := domain.Candidate{
		FullName:     input.FullName,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}

	var account domain.Account
	err = callRepository(ctx, s.circuitBreaker, func(ctx context.Context) error {
		var err error
		account, err = s.repo.Insert(ctx, candidate)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			observeRegistration("conflict")
			s.log.WithFields(ctx, withAction(fields, "register_conflict")).Warnf("register failed: %v", err)
			return domain.Account{}, ErrRegistrationConflict.WithCause(err)
		case isCircuitOpen(err):
			observeRegistration("error")
			s.log.WithFields(ctx, withAction(fields, "register_circuit_open")).Warn("register rejected: account store unavailable")
			return domain.Account{}, ErrServiceUnavailable.WithCause(err)
		default:
			observeRegistration("error")
			s.log.WithFields(ctx, withAction(fields, "register_create_failed")).Errorf("register failed: %v", err)
			return domain.Account{}, ErrRegistrationFailed.WithCause(err)
		}
	}

	fields["account_id"] = string(account.ID)
	observeRegistration("success")
	s.log.WithFields(ctx, withAction(fields, "register_success")).Info("register success")

	return account, nil
}
