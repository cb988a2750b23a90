package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type FileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.File, error)
	// Delete removes the record and returns it so the caller can unlink the
	// stored file best-effort.
	Delete(ctx context.Context, id uuid.UUID) (*model.File, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.File, error) {
	var file model.File
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&file).Error; err != nil {
		return nil, err
	}

	return &file, nil
}

func (r *fileRepository) Delete(ctx context.Context, id uuid.UUID) (*model.File, error) {
	var file model.File
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&file).Error; err != nil {
			return err
		}
		return tx.Delete(&file).Error
	})
	if err != nil {
		return nil, err
	}

	return &file, nil
}
