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

// ImageService handles the two image flows: editor images, which are stored
// and referenced by URL only, and carousel slides, which also get a database
// record so they can be listed and removed.
type ImageService interface {
	StoreContent(uploads []FileUpload) ([]string, error)
	UploadCarousel(ctx context.Context, uploads []FileUpload) ([]*model.Image, error)
	ListCarousel(ctx context.Context) ([]*model.Image, error)
	DeleteCarousel(ctx context.Context, id uuid.UUID) error
}

type imageService struct {
	images repository.ImageRepository
	files  storage.FileStorage
}

func NewImageService(images repository.ImageRepository, files storage.FileStorage) ImageService {
	return &imageService{images: images, files: files}
}

// StoreContent saves editor images and returns their public URLs. The rich
// text referencing them is the only record of their existence.
func (s *imageService) StoreContent(uploads []FileUpload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no images uploaded: %w", apperror.ErrBadRequest)
	}

	urls := make([]string, 0, len(uploads))
	for _, up := range uploads {
		path, _, err := s.files.Save(up.Content, storage.DirImages, up.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to store image %s: %w", up.Name, err)
		}
		urls = append(urls, "/"+path)
	}
	return urls, nil
}

func (s *imageService) UploadCarousel(ctx context.Context, uploads []FileUpload) ([]*model.Image, error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no images uploaded: %w", apperror.ErrBadRequest)
	}

	stored := make([]*model.Image, 0, len(uploads))
	for _, up := range uploads {
		path, _, err := s.files.Save(up.Content, storage.DirCarousel, up.Name)
		if err != nil {
			s.discard(stored)
			return nil, fmt.Errorf("failed to store image %s: %w", up.Name, err)
		}
		stored = append(stored, &model.Image{
			Path: "/" + path,
			Date: time.Now(),
		})
	}

	if err := s.images.CreateBatch(ctx, stored); err != nil {
		s.discard(stored)
		return nil, fmt.Errorf("failed to create images: %w", err)
	}
	return stored, nil
}

func (s *imageService) discard(stored []*model.Image) {
	for _, img := range stored {
		if err := s.files.Remove(img.Path); err != nil {
			log.Printf("failed to remove stored image %s: %v", img.Path, err)
		}
	}
}

func (s *imageService) ListCarousel(ctx context.Context) ([]*model.Image, error) {
	images, err := s.images.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

func (s *imageService) DeleteCarousel(ctx context.Context, id uuid.UUID) error {
	image, err := s.images.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("image not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if err := s.files.Remove(image.Path); err != nil {
		log.Printf("failed to remove image %s: %v", image.Path, err)
	}
	return nil
}
