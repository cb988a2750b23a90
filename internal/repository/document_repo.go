package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type DocumentRepository interface {
	// CreateBatch persists all documents or none of them.
	CreateBatch(ctx context.Context, docs []*model.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	FindAll(ctx context.Context) ([]*model.Document, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) CreateBatch(ctx context.Context, docs []*model.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, doc := range docs {
			if err := tx.Create(doc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&doc).Error; err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *documentRepository) FindAll(ctx context.Context) ([]*model.Document, error) {
	var docs []*model.Document
	if err := r.db.WithContext(ctx).
		Preload("Uploader").
		Order("date DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&doc).Error; err != nil {
			return err
		}
		return tx.Delete(&doc).Error
	})
	if err != nil {
		return nil, err
	}

	return &doc, nil
}
