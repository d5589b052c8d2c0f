// Package cover stores book cover images on disk, one directory per isbn
// with a single cover file inside. Uploading a new cover replaces the old
// one.
package cover

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxBytes is the upload size limit.
const MaxBytes = 5 << 20

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
	ErrNotFound        = errors.New("image not found")
)

type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func extensionFor(contentType string) (string, error) {
	switch contentType {
	case "image/png":
		return ".png", nil
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	default:
		return "", ErrUnsupportedType
	}
}

func contentTypeFor(path string) string {
	if strings.HasSuffix(path, ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

// Save writes the cover for isbn, wiping any previous cover first, and
// returns the relative path ("<isbn>/cover.<ext>") to persist on the book.
func (s *Store) Save(isbn, contentType string, r io.Reader) (string, error) {
	ext, err := extensionFor(contentType)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.baseDir, isbn)
	if entries, err := os.ReadDir(dir); err == nil {
		for _, entry := range entries {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return "", fmt.Errorf("remove previous cover: %w", err)
			}
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create cover directory: %w", err)
	}

	name := "cover" + ext
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create cover file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("write cover file: %w", err)
	}
	if written > MaxBytes {
		_ = os.Remove(filepath.Join(dir, name))
		return "", ErrTooLarge
	}
	return isbn + "/" + name, nil
}

// Isbn extracts the owning isbn from a stored cover path.
func Isbn(relPath string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(relPath))
	parts := strings.Split(clean, "/")
	if len(parts) < 2 || parts[0] == "" || parts[0] == ".." || parts[0] == "." {
		return "", fmt.Errorf("invalid cover path %q", relPath)
	}
	return parts[0], nil
}

// Open returns the stored cover file and its content type.
func (s *Store) Open(relPath string) (*os.File, string, error) {
	clean := filepath.Clean(relPath)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, "", ErrNotFound
	}
	full := filepath.Join(s.baseDir, clean)
	file, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return file, contentTypeFor(full), nil
}
