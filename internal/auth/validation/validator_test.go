package validation

import (
	"errors"
	"strings"
	"testing"
)

type registerShape struct {
	FullName        string `validate:"required,min=2"`
	Username        string `validate:"required,min=3,max=20,username"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,maxbytes=72"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

type loginShape struct {
	Identifier string `validate:"required"`
	Password   string `validate:"required,maxbytes=72"`
}

func validRegister() registerShape {
	return registerShape{
		FullName:        "Alice Example",
		Username:        "alice_01",
		Email:           "alice@example.com",
		Password:        "S3cret!",
		ConfirmPassword: "S3cret!",
	}
}

func TestValidator_Register(t *testing.T) {
	v := New()

	cases := []struct {
		name   string
		mutate func(*registerShape)
		want   error
	}{
		{"valid", func(*registerShape) {}, nil},
		{"short full name", func(r *registerShape) { r.FullName = "A" }, ErrValidationFullName},
		{"short username", func(r *registerShape) { r.Username = "al" }, ErrValidationUsernameLength},
		{"long username", func(r *registerShape) { r.Username = strings.Repeat("a", 21) }, ErrValidationUsernameLength},
		{"username charset", func(r *registerShape) { r.Username = "alice-01" }, ErrValidationUsernameChars},
		{"username with at sign", func(r *registerShape) { r.Username = "alice@01" }, ErrValidationUsernameChars},
		{"bad email", func(r *registerShape) { r.Email = "alice.example.com" }, ErrValidationEmail},
		{"empty password", func(r *registerShape) { r.Password = ""; r.ConfirmPassword = "" }, ErrValidationPasswordLength},
		{"password over 72 bytes", func(r *registerShape) {
			r.Password = strings.Repeat("é", 37)
			r.ConfirmPassword = r.Password
		}, ErrValidationPasswordLength},
		{"mismatched confirmation", func(r *registerShape) { r.ConfirmPassword = "other" }, ErrValidationPasswordMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validRegister()
			tc.mutate(&in)

			err := v.Struct(in)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidator_FirstFailingFieldWins(t *testing.T) {
	v := New()

	err := v.Struct(registerShape{FullName: "A", Username: "!", Email: "x"})
	if !errors.Is(err, ErrValidationFullName) {
		t.Fatalf("expected full name error first, got %v", err)
	}
}

func TestValidator_Login(t *testing.T) {
	v := New()

	if err := v.Struct(loginShape{Identifier: "alice_01", Password: "pw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Struct(loginShape{Password: "pw"}); !errors.Is(err, ErrValidationIdentifier) {
		t.Fatalf("expected identifier error, got %v", err)
	}
	if err := v.Struct(loginShape{Identifier: "alice_01"}); !errors.Is(err, ErrValidationPasswordLength) {
		t.Fatalf("expected password error, got %v", err)
	}
}
