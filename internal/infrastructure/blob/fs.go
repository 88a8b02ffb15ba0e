package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"stockroom/internal/core/apperror"
	"stockroom/internal/domain/files"
)

// FSStore implements files.BlobStore on the local filesystem.
// Suitable for single-node deployments and tests; use S3Store otherwise.
type FSStore struct {
	root string
}

var _ files.BlobStore = (*FSStore)(nil)

// NewFSStore creates a filesystem blob store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FSStore{root: dir}, nil
}

// path maps a locator to a filesystem path, rejecting escapes from root.
func (s *FSStore) path(locator string) (string, error) {
	if locator == "" {
		return "", errors.New("locator is required")
	}
	clean := filepath.Clean(filepath.FromSlash(locator))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid locator: %s", locator)
	}
	return filepath.Join(s.root, clean), nil
}

// Put writes the payload under locator. Content type is metadata the
// filesystem cannot hold; callers keep it in the metadata record.
func (s *FSStore) Put(ctx context.Context, locator string, data []byte, contentType string) error {
	path, err := s.path(locator)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	// Write to a temp file then rename so readers never see partial data.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize blob: %w", err)
	}

	return nil
}

// Get reads the payload.
func (s *FSStore) Get(ctx context.Context, locator string) ([]byte, error) {
	path, err := s.path(locator)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NewNotFound("blob", locator)
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}

	return data, nil
}

// Delete removes the payload. Deleting an absent locator is not an error.
func (s *FSStore) Delete(ctx context.Context, locator string) error {
	if locator == "" {
		return nil
	}

	path, err := s.path(locator)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}

	return nil
}
