package dto

import (
	"time"

	"stockroom/internal/domain/files"
)

// FileResponse is the metadata view of a stored file.
type FileResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedBy   string    `json:"uploadedBy,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// FromStoredFile creates FileResponse from domain entity.
func FromStoredFile(f *files.StoredFile) FileResponse {
	return FileResponse{
		ID:           f.ID.String(),
		OriginalName: f.OriginalName,
		ContentType:  f.ContentType,
		SizeBytes:    f.SizeBytes,
		UploadedBy:   f.UploadedBy,
		UploadedAt:   f.UploadedAt,
	}
}
