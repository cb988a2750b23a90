package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type AchievementRepository interface {
	Create(ctx context.Context, achievement *model.Achievement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error)
	FindByIDAndIncrementVisit(ctx context.Context, id uuid.UUID) (*model.Achievement, error)
	FindAll(ctx context.Context) ([]*model.Achievement, error)
	TopByVisits(ctx context.Context, limit int) ([]*model.Achievement, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Create(ctx context.Context, achievement *model.Achievement) error {
	return r.db.WithContext(ctx).Create(achievement).Error
}

func (r *achievementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	var achievement model.Achievement
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&achievement).Error; err != nil {
		return nil, err
	}

	return &achievement, nil
}

func (r *achievementRepository) FindByIDAndIncrementVisit(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Achievement{}).
		Where("id = ?", id).
		UpdateColumn("visit_count", gorm.Expr("visit_count + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *achievementRepository) FindAll(ctx context.Context) ([]*model.Achievement, error) {
	var achievements []*model.Achievement
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Find(&achievements).Error; err != nil {
		return nil, err
	}

	return achievements, nil
}

func (r *achievementRepository) TopByVisits(ctx context.Context, limit int) ([]*model.Achievement, error) {
	var achievements []*model.Achievement
	if err := r.db.WithContext(ctx).
		Order("visit_count DESC").
		Limit(limit).
		Find(&achievements).Error; err != nil {
		return nil, err
	}

	return achievements, nil
}

func (r *achievementRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.Achievement{}).
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

func (r *achievementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Achievement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
