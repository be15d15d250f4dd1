package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"aarogya/internal/errors"
)

var allowedTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// Store persists uploaded report files on local disk under a single
// directory, with size and content-type limits enforced before any byte
// is written.
type Store struct {
	dir     string
	maxSize int64
}

// NewStore creates the upload directory if needed and returns a store.
func NewStore(dir string, maxSize int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, maxSize: maxSize}, nil
}

// Save validates and writes the uploaded file, returning the stored path.
// Filenames are server-generated; the client-supplied name only
// contributes its extension.
func (s *Store) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > s.maxSize {
		return "", errors.ErrFileTooLarge
	}
	contentType := file.Header.Get("Content-Type")
	defaultExt, ok := allowedTypes[contentType]
	if !ok {
		return "", errors.ErrInvalidFileType
	}

	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = defaultExt
	}
	name := fmt.Sprintf("report-%d-%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
	path := filepath.Join(s.dir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file; used to undo an upload whose database
// insert failed.
func (s *Store) Remove(path string) error {
	return os.Remove(path)
}
