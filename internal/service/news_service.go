package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/pkg/apperror"
)

// NewsService serves both the dashboard editor and the public news pages.
// Visit counting happens only on the public single-item fetch.
type NewsService interface {
	ListAdmin(ctx context.Context) ([]dto.ContentSummary, error)
	GetAdmin(ctx context.Context, id uuid.UUID) (*model.News, error)
	Save(ctx context.Context, input dto.SaveContentInput) (*model.News, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListPublic(ctx context.Context, lang string) ([]dto.ContentSummary, error)
	GetPublic(ctx context.Context, id uuid.UUID, lang string) (*dto.ContentDetail, error)
}

type newsService struct {
	news      repository.NewsRepository
	search    SearchService
	sanitizer *bluemonday.Policy
}

func NewNewsService(news repository.NewsRepository, search SearchService) NewsService {
	return &newsService{
		news:      news,
		search:    search,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// pickLang projects a bilingual pair, falling back to the native text when the
// translation is missing.
func pickLang(native, english, lang string) string {
	if lang == "en" && english != "" {
		return english
	}
	return native
}

func (s *newsService) ListAdmin(ctx context.Context) ([]dto.ContentSummary, error) {
	items, err := s.news.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}

	summaries := make([]dto.ContentSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, dto.ContentSummary{
			ID:         item.ID,
			Title:      item.Title,
			Date:       item.Date,
			VisitCount: item.VisitCount,
		})
	}
	return summaries, nil
}

func (s *newsService) GetAdmin(ctx context.Context, id uuid.UUID) (*model.News, error) {
	item, err := s.news.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("news not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load news: %w", err)
	}
	return item, nil
}

func (s *newsService) Save(ctx context.Context, input dto.SaveContentInput) (*model.News, error) {
	if input.ID == nil {
		return s.create(ctx, input)
	}
	return s.update(ctx, *input.ID, input)
}

func (s *newsService) create(ctx context.Context, input dto.SaveContentInput) (*model.News, error) {
	if input.Title == nil || input.Content == nil {
		return nil, fmt.Errorf("title and content are required: %w", apperror.ErrBadRequest)
	}

	item := &model.News{
		Title:   *input.Title,
		Content: s.sanitizer.Sanitize(*input.Content),
		Date:    time.Now(),
	}
	if input.TitleEn != nil {
		item.TitleEn = *input.TitleEn
	}
	if input.ContentEn != nil {
		item.ContentEn = s.sanitizer.Sanitize(*input.ContentEn)
	}
	if input.Date != nil {
		item.Date = *input.Date
	}

	if err := s.news.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create news: %w", err)
	}

	if err := s.search.IndexNews(item); err != nil {
		log.Printf("failed to index news %s: %v", item.ID, err)
	}
	return item, nil
}

func (s *newsService) update(ctx context.Context, id uuid.UUID, input dto.SaveContentInput) (*model.News, error) {
	fields := map[string]any{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.TitleEn != nil {
		fields["title_en"] = *input.TitleEn
	}
	if input.Content != nil {
		fields["content"] = s.sanitizer.Sanitize(*input.Content)
	}
	if input.ContentEn != nil {
		fields["content_en"] = s.sanitizer.Sanitize(*input.ContentEn)
	}
	if input.Date != nil {
		fields["date"] = *input.Date
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("nothing to update: %w", apperror.ErrBadRequest)
	}

	if err := s.news.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("news not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update news: %w", err)
	}

	item, err := s.news.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload news: %w", err)
	}

	if err := s.search.IndexNews(item); err != nil {
		log.Printf("failed to index news %s: %v", item.ID, err)
	}
	return item, nil
}

func (s *newsService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.news.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("news not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete news: %w", err)
	}

	if err := s.search.DeleteNews(id.String()); err != nil {
		log.Printf("failed to remove news %s from index: %v", id, err)
	}
	return nil
}

func (s *newsService) ListPublic(ctx context.Context, lang string) ([]dto.ContentSummary, error) {
	items, err := s.news.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}

	summaries := make([]dto.ContentSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, dto.ContentSummary{
			ID:         item.ID,
			Title:      pickLang(item.Title, item.TitleEn, lang),
			Date:       item.Date,
			VisitCount: item.VisitCount,
		})
	}
	return summaries, nil
}

func (s *newsService) GetPublic(ctx context.Context, id uuid.UUID, lang string) (*dto.ContentDetail, error) {
	item, err := s.news.FindByIDAndIncrementVisit(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("news not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load news: %w", err)
	}

	return &dto.ContentDetail{
		ID:         item.ID,
		Title:      pickLang(item.Title, item.TitleEn, lang),
		Content:    pickLang(item.Content, item.ContentEn, lang),
		Date:       item.Date,
		VisitCount: item.VisitCount,
	}, nil
}
