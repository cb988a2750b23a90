package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/pkg/apperror"
	"github.com/hpclab/labsite/pkg/storage"
)

// UserService is the admin-only account management surface.
type UserService interface {
	List(ctx context.Context, category string) ([]dto.UserSummary, error)
	Save(ctx context.Context, input dto.SaveUserInput) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	users repository.UserRepository
	files storage.FileStorage
}

func NewUserService(users repository.UserRepository, files storage.FileStorage) UserService {
	return &userService{users: users, files: files}
}

func (s *userService) List(ctx context.Context, category string) ([]dto.UserSummary, error) {
	var (
		users []*model.User
		err   error
	)
	switch category {
	case "":
		users, err = s.users.FindAll(ctx)
	case "teacher":
		users, err = s.users.FindByRole(ctx, model.RoleFaculty)
	case "student":
		users, err = s.users.FindExcludingRole(ctx, model.RoleFaculty)
	default:
		return nil, fmt.Errorf("unknown category %q: %w", category, apperror.ErrBadRequest)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summaries := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		summary := dto.UserSummary{
			ID:       u.ID,
			Username: u.Username,
			Name:     u.Name,
			NameEn:   u.NameEn,
			Photo:    u.Photo,
			Admin:    u.Admin,
			Role:     u.Role,
			Graduate: u.Graduate,
			Groups:   []dto.GroupRef{},
		}
		if u.Supervisor != nil {
			summary.Supervisor = &dto.MemberRef{ID: u.Supervisor.ID, Name: u.Supervisor.Name, NameEn: u.Supervisor.NameEn}
		}
		for _, g := range u.Groups {
			summary.Groups = append(summary.Groups, dto.GroupRef{ID: g.ID, Name: g.Name})
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Save creates the account when no ID is supplied and partially updates it
// otherwise.
func (s *userService) Save(ctx context.Context, input dto.SaveUserInput) (*model.User, error) {
	if input.ID == nil {
		return s.create(ctx, input)
	}
	return s.update(ctx, *input.ID, input)
}

func (s *userService) create(ctx context.Context, input dto.SaveUserInput) (*model.User, error) {
	if input.Username == nil || input.Password == nil || input.Name == nil || input.NameEn == nil {
		return nil, fmt.Errorf("username, password and names are required: %w", apperror.ErrBadRequest)
	}

	_, err := s.users.FindByUsername(ctx, *input.Username)
	if err == nil {
		return nil, fmt.Errorf("username already taken: %w", apperror.ErrBadRequest)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     *input.Username,
		PasswordHash: string(hash),
		Name:         *input.Name,
		NameEn:       *input.NameEn,
		SupervisorID: input.SupervisorID,
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Admin != nil {
		user.Admin = *input.Admin
	}
	if input.Graduate != nil {
		user.Graduate = *input.Graduate
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

	if input.Groups != nil {
		if err := s.users.SetGroups(ctx, user.ID, *input.Groups); err != nil {
			return nil, fmt.Errorf("failed to set groups: %w", err)
		}
	}
	return user, nil
}

func (s *userService) update(ctx context.Context, id uuid.UUID, input dto.SaveUserInput) (*model.User, error) {
	fields := map[string]any{}
	if input.Username != nil {
		fields["username"] = *input.Username
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password_hash"] = string(hash)
	}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.NameEn != nil {
		fields["name_en"] = *input.NameEn
	}
	if input.Role != nil {
		fields["role"] = *input.Role
	}
	if input.Admin != nil {
		fields["admin"] = *input.Admin
	}
	if input.SupervisorID != nil {
		fields["supervisor_id"] = *input.SupervisorID
	}
	if input.Graduate != nil {
		fields["graduate"] = *input.Graduate
	}
	if input.Interests != nil {
		fields["interests"] = *input.Interests
	}
	if input.Introduction != nil {
		fields["introduction"] = *input.Introduction
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	if input.Homepage != nil {
		fields["homepage"] = *input.Homepage
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, id, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if input.Groups != nil {
		if err := s.users.SetGroups(ctx, id, *input.Groups); err != nil {
			return nil, fmt.Errorf("failed to set groups: %w", err)
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return user, nil
}

// Delete removes the account and, best effort, its stored avatar. A failed
// unlink is logged and never fails the request.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if user.Photo != model.DefaultPhoto && strings.HasPrefix(user.Photo, "/"+storage.DirAvatars+"/") {
		if err := s.files.Remove(user.Photo); err != nil {
			log.Printf("failed to remove avatar %s: %v", user.Photo, err)
		}
	}
	return nil
}
