package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error)
	FindByName(ctx context.Context, name string) (*model.Group, error)
	FindAll(ctx context.Context) ([]*model.Group, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Group, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).
		Preload("Parent").
		Where("id = ?", id).
		First(&group).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

func (r *groupRepository) FindByName(ctx context.Context, name string) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&group).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

func (r *groupRepository) FindAll(ctx context.Context) ([]*model.Group, error) {
	var groups []*model.Group
	if err := r.db.WithContext(ctx).
		Preload("Parent").
		Order("name ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}

	return groups, nil
}

// FindByUser returns the groups a user belongs to. A missing user is a
// not-found condition, distinct from a user with no groups.
func (r *groupRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*model.Group, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Groups").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return nil, err
	}

	groups := make([]*model.Group, len(user.Groups))
	for i := range user.Groups {
		groups[i] = &user.Groups[i]
	}

	return groups, nil
}

func (r *groupRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes the group and every membership reference to it in the same
// transaction, so no account is left pointing at a dead group.
func (r *groupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_groups WHERE group_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Group{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.Group{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
