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

// AchievementService mirrors the news surface for the achievements section.
type AchievementService interface {
	ListAdmin(ctx context.Context) ([]dto.ContentSummary, error)
	GetAdmin(ctx context.Context, id uuid.UUID) (*model.Achievement, error)
	Save(ctx context.Context, input dto.SaveContentInput) (*model.Achievement, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListPublic(ctx context.Context, lang string) ([]dto.ContentSummary, error)
	GetPublic(ctx context.Context, id uuid.UUID, lang string) (*dto.ContentDetail, error)
}

type achievementService struct {
	achievements repository.AchievementRepository
	search       SearchService
	sanitizer    *bluemonday.Policy
}

func NewAchievementService(achievements repository.AchievementRepository, search SearchService) AchievementService {
	return &achievementService{
		achievements: achievements,
		search:       search,
		sanitizer:    bluemonday.UGCPolicy(),
	}
}

func (s *achievementService) ListAdmin(ctx context.Context) ([]dto.ContentSummary, error) {
	items, err := s.achievements.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
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

func (s *achievementService) GetAdmin(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	item, err := s.achievements.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("achievement not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load achievement: %w", err)
	}
	return item, nil
}

func (s *achievementService) Save(ctx context.Context, input dto.SaveContentInput) (*model.Achievement, error) {
	if input.ID == nil {
		return s.create(ctx, input)
	}
	return s.update(ctx, *input.ID, input)
}

func (s *achievementService) create(ctx context.Context, input dto.SaveContentInput) (*model.Achievement, error) {
	if input.Title == nil || input.Content == nil {
		return nil, fmt.Errorf("title and content are required: %w", apperror.ErrBadRequest)
	}

	item := &model.Achievement{
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

	if err := s.achievements.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}

	if err := s.search.IndexAchievement(item); err != nil {
		log.Printf("failed to index achievement %s: %v", item.ID, err)
	}
	return item, nil
}

func (s *achievementService) update(ctx context.Context, id uuid.UUID, input dto.SaveContentInput) (*model.Achievement, error) {
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

	if err := s.achievements.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("achievement not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update achievement: %w", err)
	}

	item, err := s.achievements.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload achievement: %w", err)
	}

	if err := s.search.IndexAchievement(item); err != nil {
		log.Printf("failed to index achievement %s: %v", item.ID, err)
	}
	return item, nil
}

func (s *achievementService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.achievements.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("achievement not found: %w", apperror.ErrNotFound)
		}
		return fmt.Errorf("failed to delete achievement: %w", err)
	}

	if err := s.search.DeleteAchievement(id.String()); err != nil {
		log.Printf("failed to remove achievement %s from index: %v", id, err)
	}
	return nil
}

func (s *achievementService) ListPublic(ctx context.Context, lang string) ([]dto.ContentSummary, error) {
	items, err := s.achievements.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
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

func (s *achievementService) GetPublic(ctx context.Context, id uuid.UUID, lang string) (*dto.ContentDetail, error) {
	item, err := s.achievements.FindByIDAndIncrementVisit(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("achievement not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load achievement: %w", err)
	}

	return &dto.ContentDetail{
		ID:         item.ID,
		Title:      pickLang(item.Title, item.TitleEn, lang),
		Content:    pickLang(item.Content, item.ContentEn, lang),
		Date:       item.Date,
		VisitCount: item.VisitCount,
	}, nil
}
