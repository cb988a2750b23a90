package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/pkg/apperror"
	"github.com/hpclab/labsite/pkg/token"
)

func newAuthFixture(t *testing.T) (*fakeUserRepo, AuthService, *model.User) {
	t.Helper()

	users := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := users.add(&model.User{
		Username:     "alice",
		PasswordHash: string(hash),
		Name:         "Alice",
		NameEn:       "Alice",
	})

	svc := NewAuthService(users, token.NewService("test-secret", time.Hour), nil)
	return users, svc, user
}

func TestLoginUnknownUserIsNotFound(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginInput{Username: "nobody", Password: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginInput{Username: "alice", Password: "wrong"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if errors.Is(err, apperror.ErrNotFound) {
		t.Fatal("wrong password must not look like an unknown user")
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	_, svc, user := newAuthFixture(t)

	res, err := svc.Login(context.Background(), dto.LoginInput{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := token.NewService("test-secret", time.Hour).Validate(res.Token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token user = %s, want %s", claims.UserID, user.ID)
	}
	if claims.Admin {
		t.Fatal("non-admin login produced an admin token")
	}
	if time.Until(res.ExpiresAt) <= 0 {
		t.Fatal("token already expired at issue time")
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	_, svc, _ := newAuthFixture(t)

	_, err := svc.Signup(context.Background(), dto.SignupInput{
		Username: "alice",
		Password: "whatever1",
		Name:     "Other",
		NameEn:   "Other",
	})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestSignupHashesPassword(t *testing.T) {
	users, svc, _ := newAuthFixture(t)

	created, err := svc.Signup(context.Background(), dto.SignupInput{
		Username: "bob",
		Password: "plaintext",
		Name:     "Bob",
		NameEn:   "Bob",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	stored := users.users[created.ID]
	if stored.PasswordHash == "plaintext" {
		t.Fatal("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("plaintext")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestChangePasswordRequiresOldPassword(t *testing.T) {
	_, svc, user := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		OldPassword: "wrong",
		NewPassword: "new-password",
	})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	users, svc, user := newAuthFixture(t)

	err := svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordInput{
		OldPassword: "correct-horse",
		NewPassword: "new-password",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	stored := users.users[user.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password")); err != nil {
		t.Fatalf("new password not stored: %v", err)
	}
}

func TestResetPasswordSetsDefault(t *testing.T) {
	users, svc, user := newAuthFixture(t)

	if err := svc.ResetPassword(context.Background(), user.ID); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	stored := users.users[user.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(defaultResetPassword)); err != nil {
		t.Fatalf("default password not set: %v", err)
	}
}
