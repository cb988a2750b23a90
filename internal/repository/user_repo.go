package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// FindByIDFull loads the account with all owned collections expanded:
	// publications (newest first), educations (latest start first), awards,
	// groups and supervisor.
	FindByIDFull(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	FindByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	FindExcludingRole(ctx context.Context, role model.Role) ([]*model.User, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	SetGroups(ctx context.Context, id uuid.UUID, groupIDs []uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) (*model.User, error)

	AddPublication(ctx context.Context, pub *model.Publication) error
	RemovePublication(ctx context.Context, ownerID, id uuid.UUID) error
	AddEducation(ctx context.Context, edu *model.Education) error
	RemoveEducation(ctx context.Context, ownerID, id uuid.UUID) error
	AddAward(ctx context.Context, award *model.Award) error
	RemoveAward(ctx context.Context, ownerID, id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByIDFull(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Publications", func(db *gorm.DB) *gorm.DB {
			return db.Order("date DESC")
		}).
		Preload("Educations", func(db *gorm.DB) *gorm.DB {
			return db.Order("start DESC")
		}).
		Preload("Awards").
		Preload("Groups").
		Preload("Supervisor").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).
		Preload("Groups").
		Preload("Supervisor").
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) FindByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) FindExcludingRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Where("role <> ?", role).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
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

func (r *userRepository) SetGroups(ctx context.Context, id uuid.UUID, groupIDs []uuid.UUID) error {
	groups := make([]model.Group, len(groupIDs))
	for i, gid := range groupIDs {
		groups[i] = model.Group{ID: gid}
	}

	user := model.User{ID: id}
	return r.db.WithContext(ctx).Model(&user).Association("Groups").Replace(&groups)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Delete removes the account together with its owned collections and group
// memberships, and returns the removed record so the caller can clean up the
// stored avatar.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_groups WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Publication{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Education{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Award{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) AddPublication(ctx context.Context, pub *model.Publication) error {
	return r.db.WithContext(ctx).Create(pub).Error
}

func (r *userRepository) RemovePublication(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.removeOwned(ctx, &model.Publication{}, ownerID, id)
}

func (r *userRepository) AddEducation(ctx context.Context, edu *model.Education) error {
	return r.db.WithContext(ctx).Create(edu).Error
}

func (r *userRepository) RemoveEducation(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.removeOwned(ctx, &model.Education{}, ownerID, id)
}

func (r *userRepository) AddAward(ctx context.Context, award *model.Award) error {
	return r.db.WithContext(ctx).Create(award).Error
}

func (r *userRepository) RemoveAward(ctx context.Context, ownerID, id uuid.UUID) error {
	return r.removeOwned(ctx, &model.Award{}, ownerID, id)
}

// removeOwned deletes a sub-record only when it belongs to ownerID. The single
// statement keeps the owning account's collection and the standalone record
// consistent: either both go or neither does.
func (r *userRepository) removeOwned(ctx context.Context, record any, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(record)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
