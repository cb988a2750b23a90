package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/pkg/apperror"
	"github.com/hpclab/labsite/pkg/token"
)

const (
	// defaultResetPassword is what an admin reset sets the account to. The
	// owner is expected to change it on next login.
	defaultResetPassword = "123456"

	maxLoginFailures   = 5
	loginFailureWindow = 10 * time.Minute
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Signup(ctx context.Context, input dto.SignupInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error
	ResetPassword(ctx context.Context, targetID uuid.UUID) error
}

type authService struct {
	users  repository.UserRepository
	tokens *token.Service
	rdb    *redis.Client
}

func NewAuthService(users repository.UserRepository, tokens *token.Service, rdb *redis.Client) AuthService {
	return &authService{users: users, tokens: tokens, rdb: rdb}
}

// Login distinguishes an unknown account from a wrong password so the form
// can tell the user which one happened. Repeated wrong passwords for the same
// username are throttled.
func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	failures, err := GetFailures(ctx, s.rdb, input.Username, "login")
	if err != nil {
		log.Printf("login throttle unavailable: %v", err)
	}
	if failures >= maxLoginFailures {
		return nil, fmt.Errorf("too many failed logins: %w", apperror.ErrTooManyRequests)
	}

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		if _, cntErr := CountFailure(ctx, s.rdb, input.Username, "login", loginFailureWindow); cntErr != nil {
			log.Printf("login throttle unavailable: %v", cntErr)
		}
		return nil, fmt.Errorf("invalid password: %w", apperror.ErrUnauthorized)
	}

	if err := ClearFailures(ctx, s.rdb, input.Username, "login"); err != nil {
		log.Printf("failed to clear login failures: %v", err)
	}

	tokenString, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.Admin)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &dto.AuthResponse{Token: tokenString, ExpiresAt: expiresAt}, nil
}

func (s *authService) Signup(ctx context.Context, input dto.SignupInput) (*model.User, error) {
	_, err := s.users.FindByUsername(ctx, input.Username)
	if err == nil {
		return nil, fmt.Errorf("username already taken: %w", apperror.ErrBadRequest)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		Name:         input.Name,
		NameEn:       input.NameEn,
		SupervisorID: input.SupervisorID,
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Interests != nil {
		user.Interests = *input.Interests
	}
	if input.Introduction != nil {
		user.Introduction = *input.Introduction
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Homepage != nil {
		user.Homepage = *input.Homepage
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// ChangePassword requires the caller to prove the current password even
// though the session is already authenticated.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return fmt.Errorf("old password mismatch: %w", apperror.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, targetID uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultResetPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, targetID, string(hash)); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
