package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.Issue(42, RoleUser, "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.AccountID != 42 {
		t.Fatalf("expected account 42, got %d", claims.AccountID)
	}
	if claims.Role != RoleUser {
		t.Fatalf("expected role %q, got %q", RoleUser, claims.Role)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue(42, RoleAssistant, "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	checker := NewService("test-secret", time.Hour)
	if _, err := checker.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	token, err := svc.Issue(42, RoleDoctor, "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewService("other-secret", time.Hour)
	if _, err := other.Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	if _, err := svc.Validate("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestIssueWithoutSecret(t *testing.T) {
	svc := NewService("", time.Hour)
	if _, err := svc.Issue(42, RoleUser, ""); err == nil {
		t.Fatalf("expected error without secret")
	}
}
