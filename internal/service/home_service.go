package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/internal/repository"
	"github.com/hpclab/labsite/pkg/apperror"
)

const homeSectionSize = 3

// HomeService builds the public aggregate pages. Sections are fetched
// concurrently and a failed section degrades to empty instead of failing the
// page.
type HomeService interface {
	Home(ctx context.Context, lang string) (*dto.HomeResponse, error)
	Members(ctx context.Context, lang string) (*dto.MemberDirectory, error)
	Member(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error)
}

type homeService struct {
	users        repository.UserRepository
	news         repository.NewsRepository
	achievements repository.AchievementRepository
	blogs        repository.BlogRepository
	images       repository.ImageRepository
}

func NewHomeService(
	users repository.UserRepository,
	news repository.NewsRepository,
	achievements repository.AchievementRepository,
	blogs repository.BlogRepository,
	images repository.ImageRepository,
) HomeService {
	return &homeService{
		users:        users,
		news:         news,
		achievements: achievements,
		blogs:        blogs,
		images:       images,
	}
}

func (s *homeService) Home(ctx context.Context, lang string) (*dto.HomeResponse, error) {
	resp := &dto.HomeResponse{
		TopNews:         []dto.ContentSummary{},
		Slides:          []model.Image{},
		TopAchievements: []dto.ContentSummary{},
		LatestBlogs:     []dto.BlogSummary{},
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		items, err := s.news.TopByVisits(ctx, homeSectionSize)
		if err != nil {
			log.Printf("home: failed to load top news: %v", err)
			return
		}
		for _, item := range items {
			resp.TopNews = append(resp.TopNews, dto.ContentSummary{
				ID:         item.ID,
				Title:      pickLang(item.Title, item.TitleEn, lang),
				Date:       item.Date,
				VisitCount: item.VisitCount,
			})
		}
	}()

	go func() {
		defer wg.Done()
		items, err := s.achievements.TopByVisits(ctx, homeSectionSize)
		if err != nil {
			log.Printf("home: failed to load top achievements: %v", err)
			return
		}
		for _, item := range items {
			resp.TopAchievements = append(resp.TopAchievements, dto.ContentSummary{
				ID:         item.ID,
				Title:      pickLang(item.Title, item.TitleEn, lang),
				Date:       item.Date,
				VisitCount: item.VisitCount,
			})
		}
	}()

	go func() {
		defer wg.Done()
		images, err := s.images.Latest(ctx, homeSectionSize)
		if err != nil {
			log.Printf("home: failed to load slides: %v", err)
			return
		}
		for _, img := range images {
			resp.Slides = append(resp.Slides, *img)
		}
	}()

	go func() {
		defer wg.Done()
		blogs, err := s.blogs.Latest(ctx, homeSectionSize)
		if err != nil {
			log.Printf("home: failed to load latest blogs: %v", err)
			return
		}
		for _, b := range blogs {
			resp.LatestBlogs = append(resp.LatestBlogs, dto.BlogSummary{
				ID:    b.ID,
				Title: b.Title,
				Date:  b.Date,
			})
		}
	}()

	wg.Wait()
	return resp, nil
}

// Members lists faculty and students in parallel. Students carry their
// supervisor's name so the directory can group them.
func (s *homeService) Members(ctx context.Context, lang string) (*dto.MemberDirectory, error) {
	dir := &dto.MemberDirectory{
		Teachers: []dto.MemberSummary{},
		Students: []dto.MemberSummary{},
	}

	var (
		wg                 sync.WaitGroup
		teacherErr, stuErr error
		teachers, students []*model.User
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		teachers, teacherErr = s.users.FindByRole(ctx, model.RoleFaculty)
	}()
	go func() {
		defer wg.Done()
		students, stuErr = s.users.FindExcludingRole(ctx, model.RoleFaculty)
	}()
	wg.Wait()

	if teacherErr != nil {
		return nil, fmt.Errorf("failed to list faculty: %w", teacherErr)
	}
	if stuErr != nil {
		return nil, fmt.Errorf("failed to list students: %w", stuErr)
	}

	for _, u := range teachers {
		dir.Teachers = append(dir.Teachers, newMemberSummary(u, lang))
	}
	for _, u := range students {
		dir.Students = append(dir.Students, newMemberSummary(u, lang))
	}
	return dir, nil
}

func newMemberSummary(u *model.User, lang string) dto.MemberSummary {
	summary := dto.MemberSummary{
		ID:        u.ID,
		Name:      pickLang(u.Name, u.NameEn, lang),
		Photo:     u.Photo,
		Homepage:  u.Homepage,
		Interests: u.Interests,
		Role:      u.Role,
		Graduate:  u.Graduate,
	}
	if u.Supervisor != nil {
		summary.Supervisor = pickLang(u.Supervisor.Name, u.Supervisor.NameEn, lang)
	}
	return summary
}

func (s *homeService) Member(ctx context.Context, id uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.users.FindByIDFull(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member not found: %w", apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return newProfileResponse(user), nil
}
