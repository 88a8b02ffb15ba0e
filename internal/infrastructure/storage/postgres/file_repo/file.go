// Package file_repo provides the PostgreSQL store for file metadata.
package file_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/files"
	"stockroom/internal/infrastructure/storage/postgres"
)

const filesTable = "stored_files"

var fileCols = []string{
	"id", "original_name", "locator", "content_type",
	"size_bytes", "uploaded_by", "uploaded_at",
}

// FileRepo implements files.Repository.
type FileRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

var _ files.Repository = (*FileRepo)(nil)

// NewFileRepo creates a new file metadata repository.
func NewFileRepo(txManager *postgres.TxManager) *FileRepo {
	return &FileRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a metadata record.
func (r *FileRepo) Create(ctx context.Context, file files.StoredFile) error {
	q := r.builder.Insert(filesTable).
		Columns(fileCols...).
		Values(
			file.ID, file.OriginalName, file.Locator, file.ContentType,
			file.SizeBytes, file.UploadedBy, file.UploadedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	return nil
}

// GetByID retrieves a metadata record by ID.
func (r *FileRepo) GetByID(ctx context.Context, fileID id.ID) (*files.StoredFile, error) {
	q := r.builder.Select(fileCols...).
		From(filesTable).
		Where(squirrel.Eq{"id": fileID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var file files.StoredFile
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &file, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("file", fileID.String())
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// Delete removes a metadata record.
func (r *FileRepo) Delete(ctx context.Context, fileID id.ID) error {
	q := r.builder.Delete(filesTable).
		Where(squirrel.Eq{"id": fileID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("file", fileID.String())
	}

	return nil
}

// List retrieves metadata records, newest first.
func (r *FileRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[files.StoredFile], error) {
	result := domain.ListResult[files.StoredFile]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.Select(fileCols...).
		From(filesTable)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"original_name": "%" + filter.Search + "%"})
	}

	countQ := r.builder.Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("uploaded_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list files: %w", err)
	}

	return result, nil
}
