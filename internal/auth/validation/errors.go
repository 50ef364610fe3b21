package validation

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/account-service/backend/internal/common/errors"
)

var (
	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrValidationFullName = commonerrors.NewDomainError(
		"VALIDATION_FULL_NAME",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"full name must be at least 2 characters",
	)

	ErrValidationUsernameLength = commonerrors.NewDomainError(
		"VALIDATION_USERNAME_LENGTH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username must be between 3 and 20 characters",
	)

	ErrValidationUsernameChars = commonerrors.NewDomainError(
		"VALIDATION_USERNAME_CHARS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"username may contain only letters, digits and underscores",
	)

	ErrValidationEmail = commonerrors.NewDomainError(
		"VALIDATION_EMAIL",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid email address",
	)

	ErrValidationPasswordLength = commonerrors.NewDomainError(
		"VALIDATION_PASSWORD_LENGTH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"password length is out of range",
	)

	ErrValidationPasswordMismatch = commonerrors.NewDomainError(
		"VALIDATION_PASSWORD_MISMATCH",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"passwords do not match",
	)

	ErrValidationIdentifier = commonerrors.NewDomainError(
		"VALIDATION_IDENTIFIER",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"email or username is required",
	)
)
