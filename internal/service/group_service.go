package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/pkg/apperror"
)

type GroupService interface {
	List(ctx context.Context) ([]*model.Group, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Group, error)
	Save(ctx context.Context, input dto.SaveGroupInput) (*model.Group, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type groupService struct {
	groups repository.GroupRepository
}

func NewGroupService(groups repository.GroupRepository) GroupService {
	return &groupService{groups: groups}
}

func (s *groupService) List(ctx context.Context) ([]*model.Group, error) {
	groups, err := s.groups.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *groupService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Group, error) {
	groups, err := s.groups.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	return groups, nil
}

func (s *groupService) Save(ctx context.Context, input dto.SaveGroupInput) (*model.Group, error) {
	if input.ID == nil {
		return s.create(ctx, input)
	}
	return s.update(ctx, *input.ID, input)
}

func (s *groupService) create(ctx context.Context, input dto.SaveGroupInput) (*model.Group, error) {
	if input.Name == nil || *input.Name == "" {
		return nil, fmt.Errorf("group name is required: %w", apperror.ErrBadRequest)
	}

	_, err := s.groups.FindByName(ctx, *input.Name)
	if err == nil {
		return nil, fmt.Errorf("group name already taken: %w", apperror.ErrBadRequest)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check group name: %w", err)
	}

	group := &model.Group{
		Name:     *input.Name,
		ParentID: input.ParentID,
	}
	if input.Category != nil {
		group.Category = *input.Category
	}

	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

func (s *groupService) update(ctx context.Context, id uuid.UUID, input dto.SaveGroupInput) (*model.Group, error) {
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.ParentID != nil {
		fields["parent_id"] = *input.ParentID
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", apperror.ErrBadRequest)
	}

	if err := s.groups.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload group: %w", err)
	}
	return group, nil
}

func (s *groupService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.groups.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("group not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}
