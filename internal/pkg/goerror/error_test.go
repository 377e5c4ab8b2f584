package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewServer(errors.New("db down")), http.StatusInternalServerError},
		{NewBusiness("invalid email or password", CodeUnauthorized), http.StatusUnauthorized},
		{NewBusiness("too many attempts", CodeTooManyRequest), http.StatusTooManyRequests},
		{NewBusiness("email already registered", CodeConflict), http.StatusConflict},
		{NewBusiness("not allowed", CodeForbidden), http.StatusForbidden},
		{NewBusiness("missing", CodeNotFound), http.StatusNotFound},
		{NewInvalidInput(nil, "email", "required"), http.StatusUnprocessableEntity},
		{NewInvalidInput(nil, "dangling"), http.StatusBadRequest},
		{NewInvalidFormat(), http.StatusBadRequest},
		{NewBusiness("slow", CodeTimeout), http.StatusRequestTimeout},
		{NewBusiness("draining", CodeUnavailable), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		var gerr *Error
		if !errors.As(tt.err, &gerr) {
			t.Fatalf("expected *Error, got %T", tt.err)
		}
		if got := gerr.StatusCode(); got != tt.want {
			t.Errorf("%s: StatusCode() = %d, want %d", gerr, got, tt.want)
		}
	}
}

func TestServerErrorHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := NewServer(cause)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error")
	}
	if gerr.Msg() != "Internal server error" {
		t.Fatalf("Msg() = %q", gerr.Msg())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
	if gerr.Type() != TypeServer || gerr.Type().String() != "ERROR_TYPE_SERVER" {
		t.Fatalf("Type() = %v", gerr.Type())
	}
}

func TestInvalidInputFields(t *testing.T) {
	err := NewInvalidInput(nil, "password", "too short", "email", "required")

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error")
	}
	if gerr.Fields()["password"] != "too short" || gerr.Fields()["email"] != "required" {
		t.Fatalf("Fields() = %v", gerr.Fields())
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", NewBusiness("locked", CodeTooManyRequest))

	if got := CodeOf(wrapped); got != CodeTooManyRequest {
		t.Fatalf("CodeOf() = %v", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("CodeOf(plain) = %v", got)
	}
	if CodeTooManyRequest.String() != "ERROR_CODE_TOO_MANY_REQUESTS" || Code(99).String() != "ERROR_CODE_INTERNAL" {
		t.Fatalf("unexpected code names")
	}
}
