package service

import (
	"errors"
	"net/http"

	"github.com/AlibekovAA/account-service/backend/internal/account/repository"
	commonerrors "github.com/AlibekovAA/account-service/backend/internal/common/errors"
)

var (
	ErrAccountNotFound = commonerrors.NewDomainError(
		"ACCOUNT_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"no account found with this email/username",
	)

	ErrInvalidCredential = commonerrors.NewDomainError(
		"INVALID_CREDENTIAL",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"incorrect password",
	)

	ErrRegistrationConflict = commonerrors.NewDomainError(
		"REGISTRATION_CONFLICT",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username or email is already registered",
	)

	ErrRegistrationFailed = commonerrors.NewDomainError(
		"REGISTRATION_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"registration failed",
	)

	ErrResetAccountMissing = commonerrors.NewDomainError(
		"RESET_ACCOUNT_MISSING",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"account no longer exists",
	)

	ErrResetOutOfOrder = commonerrors.NewDomainError(
		"RESET_OUT_OF_ORDER",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"find the account before changing its password",
	)

	ErrResetFailed = commonerrors.NewDomainError(
		"RESET_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"password reset failed",
	)

	ErrServiceUnavailable = commonerrors.ErrServiceUnavailable
)

func isCircuitOpen(err error) bool {
	return errors.Is(err, commonerrors.ErrCircuitOpen)
}

func newInternalError(code, message string, cause error) commonerrors.DomainError {
	err := commonerrors.NewDomainError(
		code,
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		message,
	)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

// IsExpectedRepositoryError reports repository outcomes that describe the
// request rather than the health of the store.
func IsExpectedRepositoryError(err error) bool {
	return errors.Is(err, repository.ErrAccountNotFound) || errors.Is(err, repository.ErrConflict)
}
