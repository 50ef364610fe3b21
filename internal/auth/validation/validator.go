package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Validator checks request shapes against their `validate` struct tags and
// reports the first failing field as a VALIDATION_* domain error.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	mustRegister(v, "maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})

	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ErrValidation.WithCause(err)
	}

	return mapFieldError(fieldErrs[0])
}

func mapFieldError(fe validator.FieldError) error {
	switch fe.StructField() {
	case "FullName":
		return ErrValidationFullName
	case "Username":
		if fe.Tag() == "username" {
			return ErrValidationUsernameChars
		}
		return ErrValidationUsernameLength
	case "Email":
		return ErrValidationEmail
	case "Password", "NewPassword":
		return ErrValidationPasswordLength
	case "ConfirmPassword":
		if fe.Tag() == "eqfield" {
			return ErrValidationPasswordMismatch
		}
		return ErrValidationPasswordLength
	case "Identifier":
		return ErrValidationIdentifier
	}
	return ErrValidation.WithCause(fmt.Errorf("field %s failed %s", fe.Field(), fe.Tag()))
}
