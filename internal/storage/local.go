package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the path local banner files are served under.
const URLPrefix = "/uploads/"

// LocalStorage stores files on the local filesystem, served from URLPrefix.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, creating the
// directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// BasePath returns the directory files are stored in, for static serving.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

func (ls *LocalStorage) Store(ctx context.Context, filename string, content io.Reader) (string, error) {
	key := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	fullPath := filepath.Join(ls.basePath, key)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return URLPrefix + key, nil
}

func (ls *LocalStorage) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, URLPrefix) {
		return nil
	}
	// path.Base guards against traversal in a stored URL.
	fullPath := filepath.Join(ls.basePath, path.Base(url))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
