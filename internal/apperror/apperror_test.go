package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		name   string
	}{
		{Validation("bad"), http.StatusBadRequest, "ValidationError"},
		{Authentication("Unauthorized", nil), http.StatusUnauthorized, "AuthenticationError"},
		{Authorization("Unauthorized."), http.StatusUnauthorized, "AuthorizationError"},
		{NotFound("Product not found"), http.StatusNotFound, "NotFoundError"},
		{Conflict("ONE review per person"), http.StatusBadRequest, "ConflictError"},
		{Internal(errors.New("boom")), http.StatusInternalServerError, "UnhandledError"},
	}
	for _, tc := range cases {
		if got := tc.err.Status(); got != tc.status {
			t.Errorf("%s: status %d, want %d", tc.name, got, tc.status)
		}
		if got := tc.err.Kind.String(); got != tc.name {
			t.Errorf("kind name %q, want %q", got, tc.name)
		}
	}
}

func TestAsFindsWrappedError(t *testing.T) {
	cause := errors.New("db down")
	wrapped := fmt.Errorf("load product: %w", Internal(cause))

	e, ok := As(wrapped)
	if !ok {
		t.Fatal("expected *Error in chain")
	}
	if e.Kind != KindUnhandled {
		t.Fatalf("kind = %v", e.Kind)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("cause should stay reachable through Unwrap")
	}
	if e.Message != "Internal Server Error" {
		t.Fatalf("internal message leaked cause: %q", e.Message)
	}
}

func TestAsRejectsPlainErrors(t *testing.T) {
	if _, ok := As(errors.New("plain")); ok {
		t.Fatal("plain error must not match")
	}
}
