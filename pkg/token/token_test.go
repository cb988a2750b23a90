package token

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hpclab/labsite/pkg/apperror"
)

func TestIssueAndValidateRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	userID := uuid.New()

	signed, expiresAt, err := svc.Issue(userID, "alice", true)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if until := time.Until(expiresAt); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expiry %v not about an hour away", expiresAt)
	}

	claims, err := svc.Validate(signed)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Username != "alice" {
		t.Fatalf("username = %q", claims.Username)
	}
	if !claims.Admin {
		t.Fatal("admin flag lost")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	signed, _, err := svc.Issue(uuid.New(), "alice", false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = svc.Validate(signed)
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	signed, _, err := NewService("secret-a", time.Hour).Issue(uuid.New(), "alice", false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = NewService("secret-b", time.Hour).Validate(signed)
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.Validate("not.a.token")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
