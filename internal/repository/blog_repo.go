package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type BlogRepository interface {
	// Create persists the blog and its attachment records in one transaction
	// so a failed write cannot leave orphaned file rows.
	Create(ctx context.Context, blog *model.Blog, files []*model.File) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error)
	// FindAll lists posts newest-first; a non-nil authorID restricts the list
	// to that author's posts.
	FindAll(ctx context.Context, authorID *uuid.UUID) ([]*model.Blog, error)
	// FindPublic lists posts for the public activity page, optionally filtered
	// by group.
	FindPublic(ctx context.Context, groupID *uuid.UUID) ([]*model.Blog, error)
	Latest(ctx context.Context, limit int) ([]*model.Blog, error)
	// Update applies the changed fields and appends new attachment records in
	// one transaction.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any, files []*model.File) error
	// Delete removes the blog and its attachment rows and returns the removed
	// attachments so the caller can unlink the stored files.
	Delete(ctx context.Context, id uuid.UUID) ([]model.File, error)
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *model.Blog, files []*model.File) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(blog).Error; err != nil {
			return err
		}
		for _, f := range files {
			f.BlogID = &blog.ID
			if err := tx.Create(f).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *blogRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Blog, error) {
	var blog model.Blog
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Preload("Attachments").
		Where("id = ?", id).
		First(&blog).Error; err != nil {
		return nil, err
	}

	return &blog, nil
}

func (r *blogRepository) FindAll(ctx context.Context, authorID *uuid.UUID) ([]*model.Blog, error) {
	query := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Attachments").
		Order("date DESC")
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}

	var blogs []*model.Blog
	if err := query.Find(&blogs).Error; err != nil {
		return nil, err
	}

	return blogs, nil
}

func (r *blogRepository) FindPublic(ctx context.Context, groupID *uuid.UUID) ([]*model.Blog, error) {
	query := r.db.WithContext(ctx).
		Preload("Group").
		Order("date DESC")
	if groupID != nil {
		query = query.Where("group_id = ?", *groupID)
	}

	var blogs []*model.Blog
	if err := query.Find(&blogs).Error; err != nil {
		return nil, err
	}

	return blogs, nil
}

func (r *blogRepository) Latest(ctx context.Context, limit int) ([]*model.Blog, error) {
	var blogs []*model.Blog
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Limit(limit).
		Find(&blogs).Error; err != nil {
		return nil, err
	}

	return blogs, nil
}

func (r *blogRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any, files []*model.File) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			res := tx.Model(&model.Blog{}).Where("id = ?", id).Updates(fields)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		for _, f := range files {
			blogID := id
			f.BlogID = &blogID
			if err := tx.Create(f).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) ([]model.File, error) {
	var attachments []model.File
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Find(&attachments).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", id).Delete(&model.File{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.Blog{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return attachments, nil
}
