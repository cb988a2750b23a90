package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/pkg/apperror"
	"github.com/hpclab/labsite/pkg/mailer"
	"github.com/hpclab/labsite/pkg/storage"
)

// blogPostCooldown is the minimum gap between two new posts by the same
// author. Edits are not throttled.
const blogPostCooldown = 15 * time.Second

// FileUpload is one incoming multipart file, already opened by the handler.
type FileUpload struct {
	Name    string
	Content io.Reader
}

// BlogService manages activity posts and their attachments. Posting notifies
// the lab mailing address unless the title marks the post as a routine log.
type BlogService interface {
	Save(ctx context.Context, authorID uuid.UUID, admin bool, input dto.BlogInput, uploads []FileUpload) (*model.Blog, error)
	List(ctx context.Context, requesterID uuid.UUID, admin bool) ([]dto.BlogSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.BlogDetail, error)
	Delete(ctx context.Context, requesterID uuid.UUID, admin bool, id uuid.UUID) error

	ListPublic(ctx context.Context, groupID *uuid.UUID) ([]dto.BlogSummary, error)

	DeleteFile(ctx context.Context, requesterID uuid.UUID, admin bool, fileID uuid.UUID) error
	// OpenFile resolves an attachment to its record and absolute path for
	// download serving.
	OpenFile(ctx context.Context, fileID uuid.UUID) (*model.File, string, error)
}

type blogService struct {
	blogs       repository.BlogRepository
	fileRecords repository.FileRepository
	files       storage.FileStorage
	search      SearchService
	mail        mailer.Mailer
	notifyAddr  string
	rdb         *redis.Client
	sanitizer   *bluemonday.Policy
}

func NewBlogService(
	blogs repository.BlogRepository,
	fileRecords repository.FileRepository,
	files storage.FileStorage,
	search SearchService,
	mail mailer.Mailer,
	notifyAddr string,
	rdb *redis.Client,
) BlogService {
	return &blogService{
		blogs:       blogs,
		fileRecords: fileRecords,
		files:       files,
		search:      search,
		mail:        mail,
		notifyAddr:  notifyAddr,
		rdb:         rdb,
		sanitizer:   bluemonday.UGCPolicy(),
	}
}

func (s *blogService) Save(ctx context.Context, authorID uuid.UUID, admin bool, input dto.BlogInput, uploads []FileUpload) (*model.Blog, error) {
	if input.ID == nil {
		allowed, err := CheckAndSetRateLimit(ctx, s.rdb, authorID.String(), "blog", blogPostCooldown)
		if err != nil {
			return nil, fmt.Errorf("failed to check post cooldown: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("posting too fast: %w", apperror.ErrTooManyRequests)
		}
	}

	stored, err := s.storeUploads(uploads, authorID)
	if err != nil {
		return nil, err
	}

	if input.ID == nil {
		return s.create(ctx, authorID, input, stored)
	}
	return s.update(ctx, *input.ID, authorID, admin, input, stored)
}

// storeUploads writes the incoming files to disk first. When the database
// write fails later, the caller removes them again so no orphans are left.
func (s *blogService) storeUploads(uploads []FileUpload, publisherID uuid.UUID) ([]*model.File, error) {
	stored := make([]*model.File, 0, len(uploads))
	for _, up := range uploads {
		path, size, err := s.files.Save(up.Content, storage.DirPrivate, up.Name)
		if err != nil {
			s.discardStored(stored)
			return nil, fmt.Errorf("failed to store attachment %s: %w", up.Name, err)
		}
		stored = append(stored, &model.File{
			Name:        up.Name,
			Size:        size,
			Path:        path,
			Date:        time.Now(),
			PublisherID: publisherID,
		})
	}
	return stored, nil
}

func (s *blogService) discardStored(stored []*model.File) {
	for _, f := range stored {
		if err := s.files.Remove(f.Path); err != nil {
			log.Printf("failed to remove stored file %s: %v", f.Path, err)
		}
	}
}

func (s *blogService) create(ctx context.Context, authorID uuid.UUID, input dto.BlogInput, stored []*model.File) (*model.Blog, error) {
	blog := &model.Blog{
		Title:    input.Title,
		Content:  s.sanitizer.Sanitize(input.Content),
		AuthorID: authorID,
		GroupID:  input.GroupID,
		Date:     time.Now(),
	}

	if err := s.blogs.Create(ctx, blog, stored); err != nil {
		s.discardStored(stored)
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	if err := s.search.IndexBlog(blog); err != nil {
		log.Printf("failed to index blog %s: %v", blog.ID, err)
	}

	s.notify(blog)
	return blog, nil
}

// notify mails the lab list about a new post. Posts whose title contains
// "log" are routine worklogs and stay quiet.
func (s *blogService) notify(blog *model.Blog) {
	if s.notifyAddr == "" || !s.mail.IsConfigured() {
		return
	}
	if strings.Contains(strings.ToLower(blog.Title), "log") {
		return
	}

	go func() {
		subject := "New activity post: " + blog.Title
		body := fmt.Sprintf("<h3>%s</h3><p>%s</p><p>Posted at %s</p>",
			blog.Title, blog.Content, blog.Date.Format("2006-01-02 15:04"))
		if err := s.mail.Send(s.notifyAddr, subject, body); err != nil {
			log.Printf("failed to send post notification for %s: %v", blog.ID, err)
		}
	}()
}

func (s *blogService) update(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, admin bool, input dto.BlogInput, stored []*model.File) (*model.Blog, error) {
	existing, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		s.discardStored(stored)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load blog: %w", err)
	}
	if existing.AuthorID != requesterID && !admin {
		s.discardStored(stored)
		return nil, fmt.Errorf("not the author: %w", apperror.ErrForbidden)
	}

	for _, f := range stored {
		f.PublisherID = existing.AuthorID
	}

	fields := map[string]any{
		"title":   input.Title,
		"content": s.sanitizer.Sanitize(input.Content),
	}
	if input.GroupID != nil {
		fields["group_id"] = *input.GroupID
	}

	if err := s.blogs.Update(ctx, id, fields, stored); err != nil {
		s.discardStored(stored)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update blog: %w", err)
	}

	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload blog: %w", err)
	}

	if err := s.search.IndexBlog(blog); err != nil {
		log.Printf("failed to index blog %s: %v", blog.ID, err)
	}
	return blog, nil
}

func newBlogSummary(b *model.Blog) dto.BlogSummary {
	summary := dto.BlogSummary{
		ID:    b.ID,
		Title: b.Title,
		Date:  b.Date,
	}
	if b.Author != nil {
		summary.Author = b.Author.Name
	}
	if b.Group != nil {
		summary.Group = b.Group.Name
	}
	for _, f := range b.Attachments {
		summary.Attachments = append(summary.Attachments, dto.AttachmentRef{ID: f.ID, Name: f.Name})
	}
	return summary
}

// List shows admins every post and everyone else just their own.
func (s *blogService) List(ctx context.Context, requesterID uuid.UUID, admin bool) ([]dto.BlogSummary, error) {
	var authorID *uuid.UUID
	if !admin {
		authorID = &requesterID
	}

	blogs, err := s.blogs.FindAll(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}

	summaries := make([]dto.BlogSummary, 0, len(blogs))
	for _, b := range blogs {
		summaries = append(summaries, newBlogSummary(b))
	}
	return summaries, nil
}

func (s *blogService) Get(ctx context.Context, id uuid.UUID) (*dto.BlogDetail, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load blog: %w", err)
	}

	detail := &dto.BlogDetail{
		ID:          blog.ID,
		Title:       blog.Title,
		Content:     blog.Content,
		Date:        blog.Date,
		Attachments: []dto.AttachmentRef{},
	}
	if blog.Author != nil {
		detail.Author = blog.Author.Name
	}
	if blog.Group != nil {
		detail.Group = blog.Group.Name
	}
	for _, f := range blog.Attachments {
		detail.Attachments = append(detail.Attachments, dto.AttachmentRef{ID: f.ID, Name: f.Name})
	}
	return detail, nil
}

func (s *blogService) Delete(ctx context.Context, requesterID uuid.UUID, admin bool, id uuid.UUID) error {
	existing, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("blog not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to load blog: %w", err)
	}
	if existing.AuthorID != requesterID && !admin {
		return fmt.Errorf("not the author: %w", apperror.ErrForbidden)
	}

	attachments, err := s.blogs.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("blog not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete blog: %w", err)
	}

	for _, f := range attachments {
		if err := s.files.Remove(f.Path); err != nil {
			log.Printf("failed to remove attachment %s: %v", f.Path, err)
		}
	}

	if err := s.search.DeleteBlog(id.String()); err != nil {
		log.Printf("failed to remove blog %s from index: %v", id, err)
	}
	return nil
}

func (s *blogService) ListPublic(ctx context.Context, groupID *uuid.UUID) ([]dto.BlogSummary, error) {
	blogs, err := s.blogs.FindPublic(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}

	summaries := make([]dto.BlogSummary, 0, len(blogs))
	for _, b := range blogs {
		summaries = append(summaries, newBlogSummary(b))
	}
	return summaries, nil
}

func (s *blogService) DeleteFile(ctx context.Context, requesterID uuid.UUID, admin bool, fileID uuid.UUID) error {
	file, err := s.fileRecords.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("file not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to load file: %w", err)
	}
	if file.PublisherID != requesterID && !admin {
		return fmt.Errorf("not the publisher: %w", apperror.ErrForbidden)
	}

	removed, err := s.fileRecords.Delete(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("file not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if err := s.files.Remove(removed.Path); err != nil {
		log.Printf("failed to remove attachment %s: %v", removed.Path, err)
	}
	return nil
}

func (s *blogService) OpenFile(ctx context.Context, fileID uuid.UUID) (*model.File, string, error) {
	file, err := s.fileRecords.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("file not found: %w", apperror.ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to load file: %w", err)
	}
	return file, s.files.Resolve(file.Path), nil
}
