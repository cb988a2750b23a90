package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

type fakeAchievementRepo struct {
	items map[uuid.UUID]*model.Achievement
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{items: map[uuid.UUID]*model.Achievement{}}
}

func (r *fakeAchievementRepo) Create(_ context.Context, a *model.Achievement) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.items[a.ID] = a
	return nil
}

func (r *fakeAchievementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Achievement, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeAchievementRepo) FindByIDAndIncrementVisit(ctx context.Context, id uuid.UUID) (*model.Achievement, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.VisitCount++
	return a, nil
}

func (r *fakeAchievementRepo) FindAll(_ context.Context) ([]*model.Achievement, error) {
	var out []*model.Achievement
	for _, a := range r.items {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAchievementRepo) TopByVisits(ctx context.Context, limit int) ([]*model.Achievement, error) {
	out, _ := r.FindAll(ctx)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAchievementRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *fakeAchievementRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeImageRepo struct {
	images []*model.Image
}

func (r *fakeImageRepo) CreateBatch(_ context.Context, images []*model.Image) error {
	for _, img := range images {
		if img.ID == uuid.Nil {
			img.ID = uuid.New()
		}
		r.images = append(r.images, img)
	}
	return nil
}

func (r *fakeImageRepo) FindAll(_ context.Context) ([]*model.Image, error) {
	return r.images, nil
}

func (r *fakeImageRepo) Latest(_ context.Context, limit int) ([]*model.Image, error) {
	if len(r.images) > limit {
		return r.images[:limit], nil
	}
	return r.images, nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id uuid.UUID) (*model.Image, error) {
	for i, img := range r.images {
		if img.ID == id {
			r.images = append(r.images[:i], r.images[i+1:]...)
			return img, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func newHomeFixture() (*fakeUserRepo, *fakeNewsRepo, *fakeBlogRepo, *fakeImageRepo, HomeService) {
	users := newFakeUserRepo()
	news := newFakeNewsRepo()
	blogs := newFakeBlogRepo()
	images := &fakeImageRepo{}
	svc := NewHomeService(users, news, newFakeAchievementRepo(), blogs, images)
	return users, news, blogs, images, svc
}

func TestHomeLimitsEachSection(t *testing.T) {
	_, news, blogs, images, svc := newHomeFixture()

	for i := 0; i < 5; i++ {
		news.items[uuid.New()] = &model.News{
			ID:         uuid.New(),
			Title:      "n",
			Date:       time.Now(),
			VisitCount: int64(i),
		}
		blogs.blogs[uuid.New()] = &model.Blog{ID: uuid.New(), Title: "b", Date: time.Now()}
		images.images = append(images.images, &model.Image{ID: uuid.New(), Path: "/p", Date: time.Now()})
	}

	home, err := svc.Home(context.Background(), "")
	if err != nil {
		t.Fatalf("home: %v", err)
	}

	if len(home.TopNews) != homeSectionSize {
		t.Fatalf("top news = %d, want %d", len(home.TopNews), homeSectionSize)
	}
	if len(home.LatestBlogs) != homeSectionSize {
		t.Fatalf("latest blogs = %d, want %d", len(home.LatestBlogs), homeSectionSize)
	}
	if len(home.Slides) != homeSectionSize {
		t.Fatalf("slides = %d, want %d", len(home.Slides), homeSectionSize)
	}
}

func TestHomeEmptySectionsAreLists(t *testing.T) {
	_, _, _, _, svc := newHomeFixture()

	home, err := svc.Home(context.Background(), "")
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if home.TopNews == nil || home.TopAchievements == nil || home.Slides == nil || home.LatestBlogs == nil {
		t.Fatal("empty sections must be empty lists, not nulls")
	}
}

func TestMembersSplitsByRole(t *testing.T) {
	users, _, _, _, svc := newHomeFixture()

	prof := users.add(&model.User{Username: "prof", Name: "Prof", NameEn: "Prof En", Role: model.RoleFaculty})
	users.add(&model.User{
		Username:     "stud",
		Name:         "Stud",
		NameEn:       "Stud En",
		Role:         model.RoleMaster,
		Supervisor:   prof,
		SupervisorID: &prof.ID,
	})

	dir, err := svc.Members(context.Background(), "en")
	if err != nil {
		t.Fatalf("members: %v", err)
	}

	if len(dir.Teachers) != 1 || len(dir.Students) != 1 {
		t.Fatalf("teachers=%d students=%d", len(dir.Teachers), len(dir.Students))
	}
	if dir.Teachers[0].Name != "Prof En" {
		t.Fatalf("teacher name = %q", dir.Teachers[0].Name)
	}
	if dir.Students[0].Supervisor != "Prof En" {
		t.Fatalf("supervisor = %q", dir.Students[0].Supervisor)
	}
}
