package files

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
)

type memRepo struct {
	files     map[id.ID]StoredFile
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{files: make(map[id.ID]StoredFile)}
}

func (r *memRepo) Create(ctx context.Context, file StoredFile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.files[file.ID] = file
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, fileID id.ID) (*StoredFile, error) {
	f, ok := r.files[fileID]
	if !ok {
		return nil, apperror.NewNotFound("file", fileID.String())
	}
	return &f, nil
}

func (r *memRepo) Delete(ctx context.Context, fileID id.ID) error {
	delete(r.files, fileID)
	return nil
}

func (r *memRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[StoredFile], error) {
	out := domain.ListResult[StoredFile]{}
	for _, f := range r.files {
		out.Items = append(out.Items, f)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

type memBlobs struct {
	data      map[string][]byte
	deleteErr error
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: make(map[string][]byte)}
}

func (b *memBlobs) Put(ctx context.Context, locator string, data []byte, contentType string) error {
	b.data[locator] = data
	return nil
}

func (b *memBlobs) Get(ctx context.Context, locator string) ([]byte, error) {
	d, ok := b.data[locator]
	if !ok {
		return nil, apperror.NewNotFound("blob", locator)
	}
	return d, nil
}

func (b *memBlobs) Delete(ctx context.Context, locator string) error {
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.data, locator)
	return nil
}

func newTestService() (*Service, *memRepo, *memBlobs) {
	repo := newMemRepo()
	blobs := newMemBlobs()
	return NewService(repo, blobs, tx.MockManager{}), repo, blobs
}

func TestUploadAndDownload(t *testing.T) {
	ctx := context.Background()
	svc, _, blobs := newTestService()

	payload := []byte("hello world")
	file, err := svc.Upload(ctx, "report.pdf", "application/pdf", payload, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), file.SizeBytes)
	assert.NotEmpty(t, file.Locator)
	assert.Contains(t, blobs.data, file.Locator)

	meta, data, err := svc.Download(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "report.pdf", meta.OriginalName)
}

func TestUploadMetadataFailureReclaimsBlob(t *testing.T) {
	ctx := context.Background()
	svc, repo, blobs := newTestService()
	repo.createErr = errors.New("insert failed")

	_, err := svc.Upload(ctx, "report.pdf", "application/pdf", []byte("x"), "alice")
	require.Error(t, err)
	assert.Empty(t, blobs.data)
}

func TestUploadValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Upload(ctx, "", "application/pdf", []byte("x"), "alice")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDeleteRemovesBlobAndMetadata(t *testing.T) {
	ctx := context.Background()
	svc, repo, blobs := newTestService()

	file, err := svc.Upload(ctx, "doc.txt", "text/plain", []byte("data"), "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, file.ID))
	assert.Empty(t, blobs.data)
	assert.Empty(t, repo.files)

	// Second delete reports not found.
	err = svc.Delete(ctx, file.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteIdempotentOnMissingBlob(t *testing.T) {
	ctx := context.Background()
	svc, repo, blobs := newTestService()

	file, err := svc.Upload(ctx, "doc.txt", "text/plain", []byte("data"), "alice")
	require.NoError(t, err)

	// Simulate a blob lost before delete.
	delete(blobs.data, file.Locator)

	require.NoError(t, svc.Delete(ctx, file.ID))
	assert.Empty(t, repo.files)
}

func TestDeleteBlobFailureKeepsMetadata(t *testing.T) {
	ctx := context.Background()
	svc, repo, blobs := newTestService()

	file, err := svc.Upload(ctx, "doc.txt", "text/plain", []byte("data"), "alice")
	require.NoError(t, err)

	blobs.deleteErr = errors.New("store unreachable")
	err = svc.Delete(ctx, file.ID)
	require.Error(t, err)
	assert.Contains(t, repo.files, file.ID)
}

func TestDownloadMissingContent(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService()

	// Metadata without a locator (blob write never happened).
	file := NewStoredFile("ghost.bin", "application/octet-stream", 0, "alice")
	repo.files[file.ID] = file

	_, _, err := svc.Download(ctx, file.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestMakeLocatorSanitizes(t *testing.T) {
	fileID := id.New()
	loc := makeLocator(fileID, "../weird name?.pdf")
	assert.NotContains(t, loc, "..")
	assert.NotContains(t, loc, "?")
	assert.NotContains(t, loc, " ")
	assert.Contains(t, loc, fileID.String())
}
