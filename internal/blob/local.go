package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files under a root directory.
type LocalStore struct {
	root string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

// Upload writes data to root/path, creating directories as needed. Paths
// escaping the root are rejected.
func (s *LocalStore) Upload(ctx context.Context, path string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", &UploadError{Backend: BackendLocal, Path: path, Err: fmt.Errorf("path escapes store root")}
	}

	dest := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", &UploadError{Backend: BackendLocal, Path: path, Err: err}
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return "", &UploadError{Backend: BackendLocal, Path: path, Err: err}
	}
	return dest, nil
}
