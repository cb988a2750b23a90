// Package storage stores uploaded files on the local disk. Database records
// keep root-relative paths (e.g. "files/private/report.pdf_1690000000000" or
// "/images/avatars/<id>") so the storage root can move without rewriting rows.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Standard upload directories, relative to the storage root.
const (
	DirPrivate  = "files/private"
	DirPublic   = "files/public"
	DirImages   = "images"
	DirAvatars  = "images/avatars"
	DirCarousel = "images/carousel"
)

// FileStorage is the contract the resource managers depend on for upload
// persistence and best-effort cleanup.
type FileStorage interface {
	// Save writes r under dir with a timestamp-suffixed name and returns the
	// stored root-relative path and byte size.
	Save(r io.Reader, dir, name string) (string, int64, error)
	// SaveAs writes r under dir with exactly the given name, overwriting any
	// previous file (used for avatars, which are keyed by account ID).
	SaveAs(r io.Reader, dir, name string) (string, int64, error)
	// Remove deletes a stored file by its root-relative path.
	Remove(path string) error
	// Resolve turns a stored root-relative path into an absolute one for
	// serving.
	Resolve(path string) string
}

type diskStorage struct {
	root string
}

// NewDiskStorage creates a disk-backed FileStorage rooted at root and makes
// sure the standard upload directories exist.
func NewDiskStorage(root string) (FileStorage, error) {
	for _, dir := range []string{DirPrivate, DirPublic, DirImages, DirAvatars, DirCarousel} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
		}
	}

	return &diskStorage{root: root}, nil
}

func (s *diskStorage) Save(r io.Reader, dir, name string) (string, int64, error) {
	stored := fmt.Sprintf("%s_%d", filepath.Base(name), time.Now().UnixMilli())
	return s.write(r, dir, stored)
}

func (s *diskStorage) SaveAs(r io.Reader, dir, name string) (string, int64, error) {
	return s.write(r, dir, filepath.Base(name))
}

func (s *diskStorage) write(r io.Reader, dir, name string) (string, int64, error) {
	rel := filepath.ToSlash(filepath.Join(dir, name))
	abs := filepath.Join(s.root, rel)

	f, err := os.Create(abs)
	if err != nil {
		return "", 0, fmt.Errorf("create file %s: %w", rel, err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(abs)
		return "", 0, fmt.Errorf("write file %s: %w", rel, err)
	}

	return rel, size, nil
}

func (s *diskStorage) Remove(path string) error {
	return os.Remove(s.Resolve(path))
}

func (s *diskStorage) Resolve(path string) string {
	return filepath.Join(s.root, strings.TrimPrefix(path, "/"))
}
