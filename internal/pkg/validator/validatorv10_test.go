package validator

import (
	"errors"
	"strings"
	"testing"
)

type registerInput struct {
	Email    string `validate:"required,email"`
	FullName string `validate:"required,alphaspace"`
	Password string `validate:"required,password"`
}

func TestNewV10Validator(t *testing.T) {
	// Act
	v, err := NewV10Validator()

	// Assert
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}
	if v == nil || v.translator == nil {
		t.Fatal("validator not initialised")
	}
}

func TestV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	tests := []struct {
		name       string
		in         registerInput
		wantFields []string
	}{
		{
			name: "valid",
			in:   registerInput{Email: "jane@example.com", FullName: "Jane Doe", Password: "secret123"},
		},
		{
			name:       "short password",
			in:         registerInput{Email: "jane@example.com", FullName: "Jane Doe", Password: "short"},
			wantFields: []string{"password"},
		},
		{
			name:       "password over 72 bytes",
			in:         registerInput{Email: "jane@example.com", FullName: "Jane Doe", Password: strings.Repeat("é", 40)},
			wantFields: []string{"password"},
		},
		{
			name:       "blank password",
			in:         registerInput{Email: "jane@example.com", FullName: "Jane Doe", Password: "          "},
			wantFields: []string{"password"},
		},
		{
			name:       "everything wrong",
			in:         registerInput{Email: "nope", FullName: "J4ne", Password: ""},
			wantFields: []string{"email", "full_name", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected V10ValidationError, got %T %v", err, err)
			}
			for _, f := range tt.wantFields {
				if _, ok := verr.Values()[f]; !ok {
					t.Fatalf("expected field %q in %v", f, verr)
				}
			}
		})
	}
}

func TestV10ValidatorPasswordMessage(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	err = v.Validate(registerInput{Email: "jane@example.com", FullName: "Jane", Password: "x"})

	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected V10ValidationError, got %v", err)
	}
	if got := verr["password"]; got != "Password must be 8-72 bytes" {
		t.Fatalf("message = %q", got)
	}
}

func TestV10ValidatorAlphaSpaceMessage(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	err = v.Validate(registerInput{Email: "jane@example.com", FullName: "J4ne", Password: "secret123"})

	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected V10ValidationError, got %v", err)
	}
	if got := verr["full_name"]; got != "FullName can contain only letters and spaces" {
		t.Fatalf("message = %q", got)
	}
}
