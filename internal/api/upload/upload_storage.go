package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage is the blob-store collaborator: it persists an image and returns
// the URL clients use to fetch it.
type Storage interface {
	Save(ctx context.Context, ext string, src io.Reader) (string, error)
}

var _ Storage = (*LocalStorage)(nil)

// LocalStorage writes uploads to a directory on disk; the router serves that
// directory statically under baseURL.
type LocalStorage struct {
	baseDir string
	baseURL string
}

func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	dir := filepath.Join(baseDir, "post_images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, baseURL: baseURL}, nil
}

func (s *LocalStorage) Save(ctx context.Context, ext string, src io.Reader) (string, error) {
	name := uuid.NewString() + ext
	path := filepath.Join(s.baseDir, "post_images", name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return s.baseURL + "/post_images/" + name, nil
}
