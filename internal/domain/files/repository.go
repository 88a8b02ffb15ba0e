package files

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
)

// Repository defines operations for stored file metadata.
type Repository interface {
	Create(ctx context.Context, file StoredFile) error
	GetByID(ctx context.Context, fileID id.ID) (*StoredFile, error)
	Delete(ctx context.Context, fileID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[StoredFile], error)
}

// BlobStore holds file bytes addressed by locator.
// Implementations: local filesystem, S3.
type BlobStore interface {
	// Put writes the payload under locator, overwriting any previous value
	Put(ctx context.Context, locator string, data []byte, contentType string) error

	// Get reads the payload; returns NotFound if the locator is absent
	Get(ctx context.Context, locator string) ([]byte, error)

	// Delete removes the payload. Deleting an absent locator is not an
	// error: uploads whose blob write failed must still be deletable.
	Delete(ctx context.Context, locator string) error
}
