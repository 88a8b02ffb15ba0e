package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/activity"
	"stockroom/internal/domain/files"
	"stockroom/internal/infrastructure/http/v1/dto"
)

// maxUploadSize caps multipart uploads at 32 MiB.
const maxUploadSize = 32 << 20

// FileHandler serves document upload, download and metadata endpoints.
type FileHandler struct {
	*BaseHandler
	files    *files.Service
	activity *activity.Service
}

// NewFileHandler creates a new file handler.
func NewFileHandler(base *BaseHandler, filesSvc *files.Service, activitySvc *activity.Service) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		files:       filesSvc,
		activity:    activitySvc,
	}
}

// Upload handles POST /files - multipart upload.
func (h *FileHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("multipart field 'file' is required").
			WithDetail("error", err.Error()))
		return
	}

	if header.Size > maxUploadSize {
		h.Error(c, apperror.NewValidation("file too large").
			WithDetail("maxBytes", maxUploadSize))
		return
	}

	src, err := header.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(fmt.Errorf("open upload: %w", err)))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		h.Error(c, apperror.NewInternal(fmt.Errorf("read upload: %w", err)))
		return
	}
	if int64(len(data)) > maxUploadSize {
		h.Error(c, apperror.NewValidation("file too large").
			WithDetail("maxBytes", maxUploadSize))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	stored, err := h.files.Upload(ctx, header.Filename, contentType, data, h.GetLogin(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "file.upload", map[string]any{
		"fileId": stored.ID.String(),
		"name":   stored.OriginalName,
		"size":   stored.SizeBytes,
	})

	c.JSON(http.StatusCreated, dto.FromStoredFile(stored))
}

// List handles GET /files.
func (h *FileHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.files.List(ctx, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i := range result.Items {
		items[i] = dto.FromStoredFile(&result.Items[i])
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /files/:id - metadata only.
func (h *FileHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	fileID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	stored, err := h.files.GetByID(ctx, fileID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStoredFile(stored))
}

// Download handles GET /files/:id/content - the stored bytes.
func (h *FileHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()

	fileID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	stored, data, err := h.files.Download(ctx, fileID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stored.OriginalName))
	c.Data(http.StatusOK, stored.ContentType, data)
}

// Delete handles DELETE /files/:id - metadata and blob.
func (h *FileHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	fileID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	if err := h.files.Delete(ctx, fileID); err != nil {
		h.Error(c, err)
		return
	}

	h.activity.Log(ctx, h.GetLogin(c), "file.delete", map[string]any{
		"fileId": fileID.String(),
	})

	h.NoContent(c)
}
