package cover

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	store := NewStore(t.TempDir())

	path, err := store.Save("9780306406157", "image/png", strings.NewReader("pngdata"))
	if err != nil {
		t.Fatal(err)
	}
	if path != "9780306406157/cover.png" {
		t.Errorf("path = %q", path)
	}

	file, contentType, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	if contentType != "image/png" {
		t.Errorf("content type = %q", contentType)
	}
	data, _ := io.ReadAll(file)
	if string(data) != "pngdata" {
		t.Errorf("data = %q", data)
	}
}

func TestSaveReplacesPreviousCover(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if _, err := store.Save("9780306406157", "image/png", strings.NewReader("pngdata")); err != nil {
		t.Fatal(err)
	}
	path, err := store.Save("9780306406157", "image/jpeg", strings.NewReader("jpegdata"))
	if err != nil {
		t.Fatal(err)
	}
	if path != "9780306406157/cover.jpg" {
		t.Errorf("path = %q", path)
	}

	// The old png is gone; exactly one file remains.
	entries, err := os.ReadDir(filepath.Join(dir, "9780306406157"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "cover.jpg" {
		t.Errorf("entries = %v", entries)
	}
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Save("9780306406157", "image/gif", strings.NewReader("gifdata"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestSaveRejectsOversizedUpload(t *testing.T) {
	store := NewStore(t.TempDir())
	oversized := strings.NewReader(strings.Repeat("x", MaxBytes+1))
	_, err := store.Save("9780306406157", "image/png", oversized)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestIsbn(t *testing.T) {
	isbn, err := Isbn("9780306406157/cover.png")
	if err != nil || isbn != "9780306406157" {
		t.Errorf("isbn = %q, err = %v", isbn, err)
	}

	for _, path := range []string{"", "cover.png", "../etc/passwd", "./cover.png"} {
		if _, err := Isbn(path); err == nil {
			t.Errorf("Isbn(%q) should fail", path)
		}
	}
}

func TestOpenMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, _, err := store.Open("9780306406157/cover.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, _, err := store.Open("../outside"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
