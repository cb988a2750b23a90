package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/pkg/apperror"
)

type fakeGroupRepo struct {
	groups map[uuid.UUID]*model.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: map[uuid.UUID]*model.Group{}}
}

func (r *fakeGroupRepo) Create(_ context.Context, group *model.Group) error {
	if group.ID == uuid.Nil {
		group.ID = uuid.New()
	}
	r.groups[group.ID] = group
	return nil
}

func (r *fakeGroupRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return g, nil
}

func (r *fakeGroupRepo) FindByName(_ context.Context, name string) (*model.Group, error) {
	for _, g := range r.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGroupRepo) FindAll(_ context.Context) ([]*model.Group, error) {
	var out []*model.Group
	for _, g := range r.groups {
		out = append(out, g)
	}
	return out, nil
}

func (r *fakeGroupRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*model.Group, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeGroupRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	g, ok := r.groups[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["name"]; ok {
		g.Name = v.(string)
	}
	if v, ok := fields["category"]; ok {
		g.Category = v.(model.GroupCategory)
	}
	return nil
}

func (r *fakeGroupRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.groups, id)
	return nil
}

func TestSaveGroupRequiresName(t *testing.T) {
	svc := NewGroupService(newFakeGroupRepo())

	_, err := svc.Save(context.Background(), dto.SaveGroupInput{})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestSaveGroupDuplicateNameRejected(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)

	name := "systems"
	if _, err := svc.Save(context.Background(), dto.SaveGroupInput{Name: &name}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Save(context.Background(), dto.SaveGroupInput{Name: &name})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if len(repo.groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(repo.groups))
	}
}

func TestSaveGroupWithIDUpdates(t *testing.T) {
	repo := newFakeGroupRepo()
	svc := NewGroupService(repo)

	name := "systems"
	created, err := svc.Save(context.Background(), dto.SaveGroupInput{Name: &name})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	renamed := "distributed systems"
	updated, err := svc.Save(context.Background(), dto.SaveGroupInput{ID: &created.ID, Name: &renamed})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != renamed {
		t.Fatalf("name = %q", updated.Name)
	}
	if len(repo.groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(repo.groups))
	}
}

func TestDeleteMissingGroupIsNotFound(t *testing.T) {
	svc := NewGroupService(newFakeGroupRepo())

	err := svc.Delete(context.Background(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListGroupsByMissingUserIsNotFound(t *testing.T) {
	svc := NewGroupService(newFakeGroupRepo())

	_, err := svc.ListByUser(context.Background(), uuid.New())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
