package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hpclab/labsite/internal/dto"
	"github.com/hpclab/labsite/internal/model"
	"github.com/hpclab/labsite/pkg/apperror"
)

func newProfileFixture() (*fakeUserRepo, *fakeStorage, ProfileService, *model.User) {
	users := newFakeUserRepo()
	st := newFakeStorage()
	user := users.add(&model.User{
		Username: "carol",
		Name:     "Carol",
		NameEn:   "Carol",
		Photo:    model.DefaultPhoto,
	})
	return users, st, NewProfileService(users, st), user
}

func TestUpdateAvatarStoresUnderAccountID(t *testing.T) {
	users, st, svc, user := newProfileFixture()

	photo, err := svc.UpdateAvatar(context.Background(), user.ID, strings.NewReader("png-bytes"), "me.png")
	if err != nil {
		t.Fatalf("update avatar: %v", err)
	}

	want := "/images/avatars/" + user.ID.String() + ".png"
	if photo != want {
		t.Fatalf("photo = %q, want %q", photo, want)
	}
	if users.users[user.ID].Photo != want {
		t.Fatal("photo not persisted on the account")
	}
	if _, ok := st.saved["images/avatars/"+user.ID.String()+".png"]; !ok {
		t.Fatal("avatar file not stored")
	}
}

func TestUpdateAvatarRejectsUnknownType(t *testing.T) {
	_, _, svc, user := newProfileFixture()

	_, err := svc.UpdateAvatar(context.Background(), user.ID, strings.NewReader("x"), "malware.exe")
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestRemoveForeignPublicationIsNotFound(t *testing.T) {
	users, _, svc, user := newProfileFixture()

	other := users.add(&model.User{Username: "dave", Name: "Dave", NameEn: "Dave"})
	pub := &model.Publication{UserID: other.ID, Title: "t", Venue: "v", Date: time.Now(), Authors: "a"}
	if err := users.AddPublication(context.Background(), pub); err != nil {
		t.Fatalf("seed publication: %v", err)
	}

	// user tries to detach a record owned by other
	err := svc.RemovePublication(context.Background(), user.ID, pub.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(users.users[other.ID].Publications) != 1 {
		t.Fatal("foreign publication was removed")
	}
}

func TestAddAndRemoveAward(t *testing.T) {
	users, _, svc, user := newProfileFixture()

	award, err := svc.AddAward(context.Background(), user.ID, dto.AwardInput{Name: "Best Paper", Date: "2026"})
	if err != nil {
		t.Fatalf("add award: %v", err)
	}
	if len(users.users[user.ID].Awards) != 1 {
		t.Fatal("award not attached")
	}

	if err := svc.RemoveAward(context.Background(), user.ID, award.ID); err != nil {
		t.Fatalf("remove award: %v", err)
	}
	if len(users.users[user.ID].Awards) != 0 {
		t.Fatal("award not detached")
	}
}

func TestUpdateProfileEmptyInputRejected(t *testing.T) {
	_, _, svc, user := newProfileFixture()

	err := svc.Update(context.Background(), user.ID, dto.UpdateProfileInput{})
	if !errors.Is(err, apperror.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestGetProfileOmitsSecrets(t *testing.T) {
	users, _, svc, user := newProfileFixture()
	users.users[user.ID].PasswordHash = "secret-hash"

	profile, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Username != "carol" {
		t.Fatalf("username = %q", profile.Username)
	}
	// Collections must come back as empty lists, not nulls.
	if profile.Publications == nil || profile.Groups == nil {
		t.Fatal("collections not initialized")
	}
}
