package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/pkg/apperror"
	"github.com/hpclab/labsite/pkg/storage"
)

// ProfileService covers everything an account owner can do to their own
// record. The owner identity always comes from the session, never from the
// request payload.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, filename string) (string, error)

	AddPublication(ctx context.Context, userID uuid.UUID, input dto.PublicationInput) (*model.Publication, error)
	RemovePublication(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	AddEducation(ctx context.Context, userID uuid.UUID, input dto.EducationInput) (*model.Education, error)
	RemoveEducation(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	AddAward(ctx context.Context, userID uuid.UUID, input dto.AwardInput) (*model.Award, error)
	RemoveAward(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

type profileService struct {
	users repository.UserRepository
	files storage.FileStorage
}

func NewProfileService(users repository.UserRepository, files storage.FileStorage) ProfileService {
	return &profileService{users: users, files: files}
}

func newProfileResponse(u *model.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		NameEn:       u.NameEn,
		Role:         u.Role,
		Interests:    u.Interests,
		Introduction: u.Introduction,
		Email:        u.Email,
		Homepage:     u.Homepage,
		Photo:        u.Photo,
		Graduate:     u.Graduate,
		Publications: u.Publications,
		Educations:   u.Educations,
		Awards:       u.Awards,
		Groups:       u.Groups,
	}
	if resp.Publications == nil {
		resp.Publications = []model.Publication{}
	}
	if resp.Educations == nil {
		resp.Educations = []model.Education{}
	}
	if resp.Awards == nil {
		resp.Awards = []model.Award{}
	}
	if resp.Groups == nil {
		resp.Groups = []model.Group{}
	}
	if u.Supervisor != nil {
		resp.Supervisor = &dto.MemberRef{ID: u.Supervisor.ID, Name: u.Supervisor.Name, NameEn: u.Supervisor.NameEn}
	}
	return resp
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.users.FindByIDFull(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return newProfileResponse(user), nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) error {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.NameEn != nil {
		fields["name_en"] = *input.NameEn
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
	if input.SupervisorID != nil {
		fields["supervisor_id"] = *input.SupervisorID
	}
	if input.Graduate != nil {
		fields["graduate"] = *input.Graduate
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update: %w", apperror.ErrBadRequest)
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// UpdateAvatar stores the image under a name derived from the account ID, so
// a re-upload replaces the previous file in place.
func (s *profileService) UpdateAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif":
	default:
		return "", fmt.Errorf("unsupported image type %q: %w", ext, apperror.ErrBadRequest)
	}

	relPath, _, err := s.files.SaveAs(r, storage.DirAvatars, userID.String()+ext)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	photo := "/" + relPath
	if err := s.users.UpdateFields(ctx, userID, map[string]any{"photo": photo}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return "", fmt.Errorf("failed to update photo: %w", err)
	}
	return photo, nil
}

func (s *profileService) AddPublication(ctx context.Context, userID uuid.UUID, input dto.PublicationInput) (*model.Publication, error) {
	pub := &model.Publication{
		UserID:  userID,
		Title:   input.Title,
		Venue:   input.Venue,
		Type:    input.Type,
		Date:    input.Date,
		Authors: input.Authors,
		Page:    input.Page,
		Vol:     input.Vol,
		Issue:   input.Issue,
	}
	if err := s.users.AddPublication(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to add publication: %w", err)
	}
	return pub, nil
}

func (s *profileService) RemovePublication(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := s.users.RemovePublication(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("publication not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to remove publication: %w", err)
	}
	return nil
}

func (s *profileService) AddEducation(ctx context.Context, userID uuid.UUID, input dto.EducationInput) (*model.Education, error) {
	edu := &model.Education{
		UserID: userID,
		Start:  input.Start,
		End:    input.End,
		School: input.School,
		Major:  input.Major,
		Degree: input.Degree,
	}
	if err := s.users.AddEducation(ctx, edu); err != nil {
		return nil, fmt.Errorf("failed to add education: %w", err)
	}
	return edu, nil
}

func (s *profileService) RemoveEducation(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := s.users.RemoveEducation(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("education not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to remove education: %w", err)
	}
	return nil
}

func (s *profileService) AddAward(ctx context.Context, userID uuid.UUID, input dto.AwardInput) (*model.Award, error) {
	award := &model.Award{
		UserID: userID,
		Name:   input.Name,
		Date:   input.Date,
	}
	if err := s.users.AddAward(ctx, award); err != nil {
		return nil, fmt.Errorf("failed to add award: %w", err)
	}
	return award, nil
}

func (s *profileService) RemoveAward(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := s.users.RemoveAward(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("award not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to remove award: %w", err)
	}
	return nil
}
