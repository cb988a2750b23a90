package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type ImageRepository interface {
	CreateBatch(ctx context.Context, images []*model.Image) error
	FindAll(ctx context.Context) ([]*model.Image, error)
	Latest(ctx context.Context, limit int) ([]*model.Image, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Image, error)
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) CreateBatch(ctx context.Context, images []*model.Image) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, img := range images {
			if err := tx.Create(img).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *imageRepository) FindAll(ctx context.Context) ([]*model.Image, error) {
	var images []*model.Image
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Find(&images).Error; err != nil {
		return nil, err
	}

	return images, nil
}

func (r *imageRepository) Latest(ctx context.Context, limit int) ([]*model.Image, error) {
	var images []*model.Image
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Limit(limit).
		Find(&images).Error; err != nil {
		return nil, err
	}

	return images, nil
}

func (r *imageRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Image, error) {
	var image model.Image
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&image).Error; err != nil {
			return err
		}
		return tx.Delete(&image).Error
	})
	if err != nil {
		return nil, err
	}

	return &image, nil
}
