package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/pkg/apperror"
	"github.com/hpclab/labsite/pkg/storage"
)

// DocumentService manages the shared data-resource downloads. Uploads arrive
// as a file batch plus a parallel description list; a length mismatch rejects
// the whole batch before anything is stored.
type DocumentService interface {
	Upload(ctx context.Context, uploaderID uuid.UUID, uploads []FileUpload, introductions []string) ([]*model.Document, error)
	List(ctx context.Context) ([]*model.Document, error)
	Open(ctx context.Context, id uuid.UUID) (*model.Document, string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentService struct {
	docs  repository.DocumentRepository
	files storage.FileStorage
}

func NewDocumentService(docs repository.DocumentRepository, files storage.FileStorage) DocumentService {
	return &documentService{docs: docs, files: files}
}

func (s *documentService) Upload(ctx context.Context, uploaderID uuid.UUID, uploads []FileUpload, introductions []string) ([]*model.Document, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no files uploaded: %w", apperror.ErrBadRequest)
	}
	if len(uploads) != len(introductions) {
		return nil, fmt.Errorf("files and descriptions do not match: %w", apperror.ErrBadRequest)
	}

	stored := make([]*model.Document, 0, len(uploads))
	for i, up := range uploads {
		path, size, err := s.files.Save(up.Content, storage.DirPublic, up.Name)
		if err != nil {
			s.discard(stored)
			return nil, fmt.Errorf("failed to store document %s: %w", up.Name, err)
		}
		stored = append(stored, &model.Document{
			Name:         up.Name,
			Introduction: introductions[i],
			Size:         size,
			Path:         path,
			Date:         time.Now(),
			UploaderID:   &uploaderID,
		})
	}

	if err := s.docs.CreateBatch(ctx, stored); err != nil {
		s.discard(stored)
		return nil, fmt.Errorf("failed to create documents: %w", err)
	}
	return stored, nil
}

func (s *documentService) discard(stored []*model.Document) {
	for _, doc := range stored {
		if err := s.files.Remove(doc.Path); err != nil {
			log.Printf("failed to remove stored document %s: %v", doc.Path, err)
		}
	}
}

func (s *documentService) List(ctx context.Context) ([]*model.Document, error) {
	docs, err := s.docs.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Open(ctx context.Context, id uuid.UUID) (*model.Document, string, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("document not found: %w", apperror.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to load document: %w", err)
	}
	return doc, s.files.Resolve(doc.Path), nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docs.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("document not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.files.Remove(doc.Path); err != nil {
		log.Printf("failed to remove document %s: %v", doc.Path, err)
	}
	return nil
}
