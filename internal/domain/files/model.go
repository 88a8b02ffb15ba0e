// Package files provides stored document metadata and its blob lifecycle.
// Metadata lives in the database, file bytes live in a blob store; the
// two are deleted together so blobs never orphan.
package files

import (
	"context"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
)

// StoredFile is the metadata record for one uploaded file.
type StoredFile struct {
	ID id.ID `db:"id" json:"id"`

	// OriginalName is the client-supplied file name
	OriginalName string `db:"original_name" json:"originalName"`

	// Locator addresses the bytes in the blob store. Empty when the blob
	// write failed but the metadata record survived.
	Locator string `db:"locator" json:"-"`

	// ContentType is the MIME type reported at upload
	ContentType string `db:"content_type" json:"contentType"`

	// SizeBytes is the stored payload size
	SizeBytes int64 `db:"size_bytes" json:"sizeBytes"`

	// UploadedBy is the actor login
	UploadedBy string `db:"uploaded_by" json:"uploadedBy,omitempty"`

	// UploadedAt is the upload timestamp
	UploadedAt time.Time `db:"uploaded_at" json:"uploadedAt"`
}

// NewStoredFile creates a metadata record with generated ID.
func NewStoredFile(originalName, contentType string, size int64, uploadedBy string) StoredFile {
	return StoredFile{
		ID:           id.New(),
		OriginalName: originalName,
		ContentType:  contentType,
		SizeBytes:    size,
		UploadedBy:   uploadedBy,
		UploadedAt:   time.Now().UTC(),
	}
}

// Validate checks metadata invariants.
func (f *StoredFile) Validate(ctx context.Context) error {
	if f.OriginalName == "" {
		return apperror.NewValidation("file name is required").
			WithDetail("field", "originalName")
	}
	if f.SizeBytes < 0 {
		return apperror.NewValidation("size cannot be negative").
			WithDetail("field", "sizeBytes")
	}
	return nil
}
