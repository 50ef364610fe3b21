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

type Phase int

const (
	PhaseAwaitingIdentifier Phase = iota
	PhaseIdentifierVerified
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdentifierVerified:
		return "identifier_verified"
	case PhaseCompleted:
		return "completed"
	default:
		return "awaiting_identifier"
	}
}

// ResetSession is the caller-held state of one password reset. Email is
// set only in PhaseIdentifierVerified and is the address as stored.
type ResetSession struct {
	Phase Phase
	Email string
}

func NewResetSession() ResetSession {
	return ResetSession{Phase: PhaseAwaitingIdentifier}
}

// ResumeSession rebuilds a verified session from the email a stateless
// client hands back. Knowing the email is the only proof required.
func ResumeSession(email string) ResetSession {
	return ResetSession{Phase: PhaseIdentifierVerified, Email: strings.TrimSpace(email)}
}

type ResetFlow struct {
	repo           repository.Repository
	hasher         commoncrypto.PasswordHasher
	validator      Validator
	circuitBreaker *resilience.CircuitBreaker
	log            *logger.Logger
}

func NewResetFlow(
	repo repository.Repository,
	hasher commoncrypto.PasswordHasher,
	validator Validator,
	circuitBreaker *resilience.CircuitBreaker,
	log *logger.Logger,
) *ResetFlow {
	return &ResetFlow{
		repo:           repo,
		hasher:         hasher,
		validator:      validator,
		circuitBreaker: circuitBreaker,
		log:            log,
	}
}

type findAccountInput struct {
	Identifier string `validate:"required,max=254"`
}

type ChangePasswordInput struct {
	NewPassword     string `validate:"required,min=8,maxbytes=72"`
	ConfirmPassword string `validate:"eqfield=NewPassword"`
	Email           string `validate:"required,email,max=254"`
}

// FindAccount resolves the identifier and moves the session to
// PhaseIdentifierVerified. It never writes. Any phase may restart the flow.
func (f *ResetFlow) FindAccount(ctx context.Context, session ResetSession, identifier string) (ResetSession, domain.Account, error) {
	kind := domain.ClassifyIdentifier(identifier)
	fields := logger.Fields{
		"identifier_kind": kind.String(),
		"phase":           session.Phase.String(),
	}

	f.log.WithFields(ctx, withAction(fields, "reset_find_attempt")).Info("password reset: find account")

	restarted := NewResetSession()

	if err := f.validator.Struct(findAccountInput{Identifier: identifier}); err != nil {
		observeReset(PhaseAwaitingIdentifier, "invalid")
		f.log.WithFields(ctx, withAction(fields, "reset_find_validation_failed")).Warnf("password reset validation failed: %v", err)
		return restarted, domain.Account{}, err
	}

	account, err := lookupAccount(ctx, f.repo, f.circuitBreaker, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			observeReset(PhaseAwaitingIdentifier, "not_found")
			f.log.WithFields(ctx, withAction(fields, "reset_find_not_found")).Warn("password reset: account not found")
			return restarted, domain.Account{}, ErrAccountNotFound
		}
		observeReset(PhaseAwaitingIdentifier, "error")
		if isCircuitOpen(err) {
			f.log.WithFields(ctx, withAction(fields, "reset_find_circuit_open")).Warn("password reset rejected: account store unavailable")
			return restarted, domain.Account{}, ErrServiceUnavailable.WithCause(err)
		}
		f.log.WithFields(ctx, withAction(fields, "reset_find_failed")).Errorf("password reset lookup failed: %v", err)
		return restarted, domain.Account{}, ErrResetFailed.WithCause(err)
	}

	fields["account_id"] = string(account.ID)
	observeReset(PhaseAwaitingIdentifier, "success")
	f.log.WithFields(ctx, withAction(fields, "reset_find_success")).Info("password reset: account verified")

	return ResetSession{Phase: PhaseIdentifierVerified, Email: account.Email}, account, nil
}

// ChangePassword replaces the password of the account verified by
// FindAccount. Input is validated before the session or store is touched.
func (f *ResetFlow) ChangePassword(ctx context.Context, session ResetSession, input ChangePasswordInput) (ResetSession, error) {
	fields := logger.Fields{"phase": session.Phase.String()}

	f.log.WithFields(ctx, withAction(fields, "reset_change_attempt")).Info("password reset: change password")

	if err := f.validator.Struct(input); err != nil {
		observeReset(PhaseIdentifierVerified, "invalid")
		f.log.WithFields(ctx, withAction(fields, "reset_change_validation_failed")).Warnf("password reset validation failed: %v", err)
		return session, err
	}

	if session.Phase != PhaseIdentifierVerified || !domain.EmailsEqual(session.Email, input.Email) {
		observeReset(PhaseIdentifierVerified, "out_of_order")
		f.log.WithFields(ctx, withAction(fields, "reset_change_out_of_order")).Warn("password reset: session does not match request")
		return session, ErrResetOutOfOrder
	}

	start := time.Now()
	hash, err := f.hasher.Hash(input.NewPassword)
	observeHashDuration(start)
	if err != nil {
		observeReset(PhaseIdentifierVerified, "error")
		f.log.WithFields(ctx, withAction(fields, "reset_hash_failed")).Errorf("password reset: hash error: %v", err)
		return session, ErrResetFailed.WithCause(err)
	}

	err = callRepository(ctx, f.circuitBreaker, func(ctx context.Context) error {
		return f.repo.UpdatePasswordHash(ctx, session.Email, hash)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountNotFound):
			observeReset(PhaseIdentifierVerified, "account_missing")
			f.log.WithFields(ctx, withAction(fields, "reset_account_missing")).Warn("password reset: account vanished")
			return NewResetSession(), ErrResetAccountMissing
		case isCircuitOpen(err):
			observeReset(PhaseIdentifierVerified, "error")
			f.log.WithFields(ctx, withAction(fields, "reset_change_circuit_open")).Warn("password reset rejected: account store unavailable")
			return session, ErrServiceUnavailable.WithCause(err)
		default:
			observeReset(PhaseIdentifierVerified, "error")
			f.log.WithFields(ctx, withAction(fields, "reset_change_failed")).Errorf("password reset failed: %v", err)
			return session, ErrResetFailed.WithCause(err)
		}
	}

	observeReset(PhaseIdentifierVerified, "success")
	f.log.WithFields(ctx, withAction(fields, "reset_change_success")).Info("password reset: password changed")

	return ResetSession{Phase: PhaseCompleted}, nil
}
