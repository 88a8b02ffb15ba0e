package files

import (
	"context"
	"fmt"
	"path"
	"strings"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/pkg/logger"
)

// Service provides business operations for stored files.
type Service struct {
	repo      Repository
	blobs     BlobStore
	txManager tx.Manager
}

// NewService creates a new file service.
func NewService(repo Repository, blobs BlobStore, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		blobs:     blobs,
		txManager: txManager,
	}
}

// Upload stores the payload in the blob store and records metadata.
// The blob is written first; if the metadata insert then fails, the blob
// is reclaimed so it does not orphan.
func (s *Service) Upload(ctx context.Context, originalName, contentType string, data []byte, uploadedBy string) (*StoredFile, error) {
	file := NewStoredFile(originalName, contentType, int64(len(data)), uploadedBy)
	if err := file.Validate(ctx); err != nil {
		return nil, err
	}
	file.Locator = makeLocator(file.ID, originalName)

	if err := s.blobs.Put(ctx, file.Locator, data, contentType); err != nil {
		return nil, fmt.Errorf("write blob: %w", err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, file)
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, file.Locator); delErr != nil {
			logger.Error(ctx, "orphaned blob after failed metadata insert",
				"locator", file.Locator, "error", delErr)
		}
		return nil, err
	}

	logger.Info(ctx, "file uploaded", "id", file.ID, "name", originalName, "size", file.SizeBytes)
	return &file, nil
}

// GetByID retrieves file metadata.
func (s *Service) GetByID(ctx context.Context, fileID id.ID) (*StoredFile, error) {
	file, err := s.repo.GetByID(ctx, fileID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("file", fileID.String())
		}
		return nil, err
	}
	return file, nil
}

// Download returns metadata and payload bytes.
func (s *Service) Download(ctx context.Context, fileID id.ID) (*StoredFile, []byte, error) {
	file, err := s.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if file.Locator == "" {
		return nil, nil, apperror.NewNotFound("file content", fileID.String())
	}

	data, err := s.blobs.Get(ctx, file.Locator)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil, apperror.NewNotFound("file content", fileID.String())
		}
		return nil, nil, fmt.Errorf("read blob: %w", err)
	}
	return file, data, nil
}

// Delete removes the blob and then the metadata record.
// A missing blob is tolerated so records from failed uploads can still
// be cleaned up; a failing blob store aborts the delete and keeps the
// metadata, avoiding orphaned blobs.
func (s *Service) Delete(ctx context.Context, fileID id.ID) error {
	file, err := s.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if file.Locator != "" {
		if err := s.blobs.Delete(ctx, file.Locator); err != nil {
			return fmt.Errorf("delete blob: %w", err)
		}
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, fileID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "file deleted", "id", fileID, "name", file.OriginalName)
	return nil
}

// List retrieves file metadata with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[StoredFile], error) {
	return s.repo.List(ctx, filter)
}

// makeLocator builds a stable blob key from the file ID and a sanitized
// version of the original name.
func makeLocator(fileID id.ID, originalName string) string {
	base := path.Base(originalName)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	return fmt.Sprintf("files/%s/%s", fileID, base)
}
