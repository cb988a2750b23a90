package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type NewsRepository interface {
	Create(ctx context.Context, news *model.News) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.News, error)
	// FindByIDAndIncrementVisit bumps the visit counter with a database-side
	// increment before returning the item, so concurrent fetches never lose
	// updates.
	FindByIDAndIncrementVisit(ctx context.Context, id uuid.UUID) (*model.News, error)
	FindAll(ctx context.Context) ([]*model.News, error)
	TopByVisits(ctx context.Context, limit int) ([]*model.News, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, news *model.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.News, error) {
	var news model.News
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&news).Error; err != nil {
		return nil, err
	}

	return &news, nil
}

func (r *newsRepository) FindByIDAndIncrementVisit(ctx context.Context, id uuid.UUID) (*model.News, error) {
	res := r.db.WithContext(ctx).
		Model(&model.News{}).
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

func (r *newsRepository) FindAll(ctx context.Context) ([]*model.News, error) {
	var news []*model.News
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Find(&news).Error; err != nil {
		return nil, err
	}

	return news, nil
}

func (r *newsRepository) TopByVisits(ctx context.Context, limit int) ([]*model.News, error) {
	var news []*model.News
	if err := r.db.WithContext(ctx).
		Order("visit_count DESC").
		Limit(limit).
		Find(&news).Error; err != nil {
		return nil, err
	}

	return news, nil
}

func (r *newsRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.News{}).
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

func (r *newsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.News{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
