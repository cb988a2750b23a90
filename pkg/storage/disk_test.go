package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStorage(t *testing.T) (FileStorage, string) {
	t.Helper()
	root := t.TempDir()
	st, err := NewDiskStorage(root)
	if err != nil {
		t.Fatalf("new disk storage: %v", err)
	}
	return st, root
}

func TestNewDiskStorageCreatesDirectories(t *testing.T) {
	_, root := newTestStorage(t)

	for _, dir := range []string{DirPrivate, DirPublic, DirImages, DirAvatars, DirCarousel} {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil {
			t.Fatalf("missing directory %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestSaveSuffixesName(t *testing.T) {
	st, root := newTestStorage(t)

	rel, size, err := st.Save(strings.NewReader("hello"), DirPrivate, "report.pdf")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != 5 {
		t.Fatalf("size = %d, want 5", size)
	}
	if !strings.HasPrefix(rel, DirPrivate+"/report.pdf_") {
		t.Fatalf("stored path = %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("content = %q", data)
	}
}

func TestSaveStripsDirectoryFromName(t *testing.T) {
	st, _ := newTestStorage(t)

	rel, _, err := st.Save(strings.NewReader("x"), DirPublic, "../../etc/passwd")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(rel, DirPublic+"/passwd_") {
		t.Fatalf("stored path escaped its directory: %q", rel)
	}
}

func TestSaveAsOverwrites(t *testing.T) {
	st, root := newTestStorage(t)

	if _, _, err := st.SaveAs(strings.NewReader("v1"), DirAvatars, "me.png"); err != nil {
		t.Fatalf("first save: %v", err)
	}
	rel, size, err := st.SaveAs(strings.NewReader("second"), DirAvatars, "me.png")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if rel != DirAvatars+"/me.png" {
		t.Fatalf("stored path = %q", rel)
	}
	if size != int64(len("second")) {
		t.Fatalf("size = %d", size)
	}

	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("content = %q, want the overwrite", data)
	}
}

func TestRemove(t *testing.T) {
	st, root := newTestStorage(t)

	rel, _, err := st.SaveAs(strings.NewReader("bye"), DirPublic, "old.txt")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// Stored paths may carry a leading slash when they double as URLs.
	if err := st.Remove("/" + rel); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, rel)); !os.IsNotExist(err) {
		t.Fatal("file still exists after remove")
	}

	if err := st.Remove("/" + rel); err == nil {
		t.Fatal("removing a missing file should fail")
	}
}

func TestResolve(t *testing.T) {
	st, root := newTestStorage(t)

	want := filepath.Join(root, "files", "public", "a.txt")
	if got := st.Resolve("/files/public/a.txt"); got != want {
		t.Fatalf("resolve = %q, want %q", got, want)
	}
	if got := st.Resolve("files/public/a.txt"); got != want {
		t.Fatalf("resolve without slash = %q, want %q", got, want)
	}
}
