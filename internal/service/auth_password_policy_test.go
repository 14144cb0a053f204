package service

import (
	"errors"
	"testing"
)

func TestValidatePasswordStrictPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Valid#Pass123", wantErr: false},
		{name: "too_short", password: "Aa1#short", wantErr: true},
		{name: "missing_upper", password: "valid#pass1234", wantErr: true},
		{name: "missing_lower", password: "VALID#PASS1234", wantErr: true},
		{name: "missing_digit", password: "Valid#Password", wantErr: true},
		{name: "missing_special", password: "ValidPass1234", wantErr: true},
	}
	for _, tc := range tests {
		err := validatePassword(PasswordPolicyStrict, tc.password)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestValidatePasswordBasicPolicy(t *testing.T) {
	if err := validatePassword(PasswordPolicyBasic, "pw1"); err != nil {
		t.Fatalf("expected short password to pass basic policy: %v", err)
	}
	if err := validatePassword(PasswordPolicyBasic, ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected empty password to fail, got %v", err)
	}
}

func TestValidateEmail(t *testing.T) {
	for _, email := range []string{"a@x.com", "Mixed.Case@Example.org"} {
		if err := validateEmail(email); err != nil {
			t.Fatalf("expected %q to be valid: %v", email, err)
		}
	}
	for _, email := range []string{"", "not-an-email", "Alice <a@x.com>"} {
		if err := validateEmail(email); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("expected %q to be invalid, got %v", email, err)
		}
	}
}
