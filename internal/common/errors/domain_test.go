package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainError_WithCauseKeepsIdentity(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := ErrCircuitOpen.WithCause(cause)

	if !errors.Is(wrapped, ErrCircuitOpen) {
		t.Fatal("expected errors.Is to match by code")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if wrapped.Error() != "circuit breaker is open: connection reset" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
}

func TestDomainError_DistinctCodesDoNotMatch(t *testing.T) {
	if errors.Is(ErrCircuitOpen, ErrServiceUnavailable) {
		t.Fatal("different codes must not match")
	}
}

func TestAsDomainError(t *testing.T) {
	err := fmt.Errorf("login: %w", ErrServiceUnavailable)

	de, ok := AsDomainError(err)
	if !ok {
		t.Fatal("expected domain error")
	}
	if de.HTTPStatus() != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", de.HTTPStatus())
	}
	if de.Category() != CategoryExternal {
		t.Fatalf("unexpected category %s", de.Category())
	}

	if IsDomainError(errors.New("plain")) {
		t.Fatal("plain error is not a domain error")
	}
}
