package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hpclab/labsite/internal/model"
)

// In-memory fakes for the repository and infrastructure contracts. They keep
// just enough behavior for the service tests: records live in maps and the
// not-found convention matches the real repositories.

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (r *fakeUserRepo) add(u *model.User) *model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.add(user)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByIDFull(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*model.User, error) {
	return r.sorted(func(*model.User) bool { return true }), nil
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	return r.sorted(func(u *model.User) bool { return u.Role == role }), nil
}

func (r *fakeUserRepo) FindExcludingRole(_ context.Context, role model.Role) ([]*model.User, error) {
	return r.sorted(func(u *model.User) bool { return u.Role != role }), nil
}

func (r *fakeUserRepo) sorted(keep func(*model.User) bool) []*model.User {
	var out []*model.User
	for _, u := range r.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeUserRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := fields["photo"]; ok {
		u.Photo = v.(string)
	}
	if v, ok := fields["email"]; ok {
		u.Email = v.(string)
	}
	return nil
}

func (r *fakeUserRepo) SetGroups(_ context.Context, id uuid.UUID, groupIDs []uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Groups = nil
	for _, gid := range groupIDs {
		u.Groups = append(u.Groups, model.Group{ID: gid})
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return u, nil
}

func (r *fakeUserRepo) AddPublication(_ context.Context, pub *model.Publication) error {
	u, ok := r.users[pub.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if pub.ID == uuid.Nil {
		pub.ID = uuid.New()
	}
	u.Publications = append(u.Publications, *pub)
	return nil
}

func (r *fakeUserRepo) RemovePublication(_ context.Context, ownerID, id uuid.UUID) error {
	u, ok := r.users[ownerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, p := range u.Publications {
		if p.ID == id {
			u.Publications = append(u.Publications[:i], u.Publications[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) AddEducation(_ context.Context, edu *model.Education) error {
	u, ok := r.users[edu.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if edu.ID == uuid.Nil {
		edu.ID = uuid.New()
	}
	u.Educations = append(u.Educations, *edu)
	return nil
}

func (r *fakeUserRepo) RemoveEducation(_ context.Context, ownerID, id uuid.UUID) error {
	u, ok := r.users[ownerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, e := range u.Educations {
		if e.ID == id {
			u.Educations = append(u.Educations[:i], u.Educations[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) AddAward(_ context.Context, award *model.Award) error {
	u, ok := r.users[award.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if award.ID == uuid.Nil {
		award.ID = uuid.New()
	}
	u.Awards = append(u.Awards, *award)
	return nil
}

func (r *fakeUserRepo) RemoveAward(_ context.Context, ownerID, id uuid.UUID) error {
	u, ok := r.users[ownerID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, a := range u.Awards {
		if a.ID == id {
			u.Awards = append(u.Awards[:i], u.Awards[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeNewsRepo struct {
	items map[uuid.UUID]*model.News
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{items: map[uuid.UUID]*model.News{}}
}

func (r *fakeNewsRepo) Create(_ context.Context, news *model.News) error {
	if news.ID == uuid.Nil {
		news.ID = uuid.New()
	}
	r.items[news.ID] = news
	return nil
}

func (r *fakeNewsRepo) FindByID(_ context.Context, id uuid.UUID) (*model.News, error) {
	n, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (r *fakeNewsRepo) FindByIDAndIncrementVisit(ctx context.Context, id uuid.UUID) (*model.News, error) {
	n, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	n.VisitCount++
	return n, nil
}

func (r *fakeNewsRepo) FindAll(_ context.Context) ([]*model.News, error) {
	var out []*model.News
	for _, n := range r.items {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeNewsRepo) TopByVisits(_ context.Context, limit int) ([]*model.News, error) {
	out, _ := r.FindAll(context.Background())
	sort.Slice(out, func(i, j int) bool { return out[i].VisitCount > out[j].VisitCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNewsRepo) UpdateFields(_ context.Context, id uuid.UUID, fields map[string]any) error {
	n, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["title"]; ok {
		n.Title = v.(string)
	}
	if v, ok := fields["content"]; ok {
		n.Content = v.(string)
	}
	return nil
}

func (r *fakeNewsRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeBlogRepo struct {
	blogs map[uuid.UUID]*model.Blog
	files map[uuid.UUID]*model.File
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{
		blogs: map[uuid.UUID]*model.Blog{},
		files: map[uuid.UUID]*model.File{},
	}
}

func (r *fakeBlogRepo) Create(_ context.Context, blog *model.Blog, files []*model.File) error {
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	r.blogs[blog.ID] = blog
	for _, f := range files {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		id := blog.ID
		f.BlogID = &id
		r.files[f.ID] = f
		blog.Attachments = append(blog.Attachments, *f)
	}
	return nil
}

func (r *fakeBlogRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Blog, error) {
	b, ok := r.blogs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *fakeBlogRepo) FindAll(_ context.Context, authorID *uuid.UUID) ([]*model.Blog, error) {
	var out []*model.Blog
	for _, b := range r.blogs {
		if authorID == nil || b.AuthorID == *authorID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeBlogRepo) FindPublic(ctx context.Context, groupID *uuid.UUID) ([]*model.Blog, error) {
	var out []*model.Blog
	for _, b := range r.blogs {
		if groupID == nil || (b.GroupID != nil && *b.GroupID == *groupID) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeBlogRepo) Latest(_ context.Context, limit int) ([]*model.Blog, error) {
	out, _ := r.FindAll(context.Background(), nil)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBlogRepo) Update(_ context.Context, id uuid.UUID, fields map[string]any, files []*model.File) error {
	b, ok := r.blogs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["title"]; ok {
		b.Title = v.(string)
	}
	if v, ok := fields["content"]; ok {
		b.Content = v.(string)
	}
	for _, f := range files {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		fid := id
		f.BlogID = &fid
		r.files[f.ID] = f
		b.Attachments = append(b.Attachments, *f)
	}
	return nil
}

func (r *fakeBlogRepo) Delete(_ context.Context, id uuid.UUID) ([]model.File, error) {
	if _, ok := r.blogs[id]; !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var removed []model.File
	for fid, f := range r.files {
		if f.BlogID != nil && *f.BlogID == id {
			removed = append(removed, *f)
			delete(r.files, fid)
		}
	}
	delete(r.blogs, id)
	return removed, nil
}

type fakeFileRepo struct {
	blogRepo *fakeBlogRepo
}

func (r *fakeFileRepo) FindByID(_ context.Context, id uuid.UUID) (*model.File, error) {
	f, ok := r.blogRepo.files[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f, nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id uuid.UUID) (*model.File, error) {
	f, ok := r.blogRepo.files[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.blogRepo.files, id)
	return f, nil
}

type fakeDocumentRepo struct {
	docs map[uuid.UUID]*model.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[uuid.UUID]*model.Document{}}
}

func (r *fakeDocumentRepo) CreateBatch(_ context.Context, docs []*model.Document) error {
	for _, d := range docs {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		r.docs[d.ID] = d
	}
	return nil
}

func (r *fakeDocumentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *fakeDocumentRepo) FindAll(_ context.Context) ([]*model.Document, error) {
	var out []*model.Document
	for _, d := range r.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id uuid.UUID) (*model.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.docs, id)
	return d, nil
}

// fakeStorage keeps file contents in memory, with deterministic stored names.
type fakeStorage struct {
	saved map[string][]byte
	seq   int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string][]byte{}}
}

func (s *fakeStorage) Save(r io.Reader, dir, name string) (string, int64, error) {
	s.seq++
	return s.write(r, fmt.Sprintf("%s/%s_%d", dir, name, s.seq))
}

func (s *fakeStorage) SaveAs(r io.Reader, dir, name string) (string, int64, error) {
	return s.write(r, dir+"/"+name)
}

func (s *fakeStorage) write(r io.Reader, path string) (string, int64, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, r)
	if err != nil {
		return "", 0, err
	}
	s.saved[path] = buf.Bytes()
	return path, n, nil
}

func (s *fakeStorage) Remove(path string) error {
	key := strings.TrimPrefix(path, "/")
	if _, ok := s.saved[key]; !ok {
		return fmt.Errorf("no such file: %s", path)
	}
	delete(s.saved, key)
	return nil
}

func (s *fakeStorage) Resolve(path string) string {
	return "/storage/" + strings.TrimPrefix(path, "/")
}

// fakeMailer records sends on a channel so tests can wait for the async
// notification goroutine.
type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 8)}
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.sent <- subject
	return nil
}

func (m *fakeMailer) IsConfigured() bool {
	return true
}
