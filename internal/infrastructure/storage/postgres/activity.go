package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/klauspost/compress/zstd"

	"stockroom/internal/core/apperror"
	"stockroom/internal/domain/activity"
)

// CompressionAlgo specifies the compression algorithm used for details.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// ActivityRepo implements activity.Repository.
// Large detail payloads are stored zstd-compressed.
type ActivityRepo struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var _ activity.Repository = (*ActivityRepo)(nil)

// NewActivityRepo creates a new activity log repository.
func NewActivityRepo(txManager *TxManager) (*ActivityRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &ActivityRepo{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Create appends one entry.
func (r *ActivityRepo) Create(ctx context.Context, entry activity.Entry) error {
	details := entry.Details
	var compressed []byte
	algo := CompressionNone

	if len(details) > r.compressThreshold {
		compressed = r.encoder.EncodeAll(details, nil)
		details = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO activity_log (
			id, user_login, action, details, details_compressed,
			compression_algo, time
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.User, entry.Action,
		details, compressed, algo, entry.Time,
	)
	if err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}

	return nil
}

// LockUserAction serializes dedup checks for one user+action pair using
// a transaction-scoped advisory lock. The lock releases at commit or
// rollback, so no explicit unlock is needed.
func (r *ActivityRepo) LockUserAction(ctx context.Context, user, action string) error {
	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx,
		"SELECT pg_advisory_xact_lock(hashtext($1))",
		user+"\x00"+action,
	)
	if err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

// GetLatest returns the single most recent entry in the log.
func (r *ActivityRepo) GetLatest(ctx context.Context) (*activity.Entry, error) {
	sql := `
		SELECT id, user_login, action, details, details_compressed,
			   compression_algo, time
		FROM activity_log
		ORDER BY time DESC
		LIMIT 1
	`

	querier := r.txManager.GetQuerier(ctx)
	entry, err := r.scanEntry(querier.QueryRow(ctx, sql))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("activity entry", "latest")
	}
	if err != nil {
		return nil, fmt.Errorf("get latest entry: %w", err)
	}

	return entry, nil
}

// ListRecent returns the most recent entries, newest first.
func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]activity.Entry, error) {
	sql := `
		SELECT id, user_login, action, details, details_compressed,
			   compression_algo, time
		FROM activity_log
		ORDER BY time DESC
		LIMIT $1
	`

	querier := r.txManager.GetQuerier(ctx)
	rows, err := querier.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent entries: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	return entries, rows.Err()
}

func (r *ActivityRepo) scanEntry(row pgx.Row) (*activity.Entry, error) {
	var e activity.Entry
	var details json.RawMessage
	var compressed []byte
	var algo CompressionAlgo

	err := row.Scan(&e.ID, &e.User, &e.Action, &details, &compressed, &algo, &e.Time)
	if err != nil {
		return nil, err
	}

	if algo == CompressionZstd && len(compressed) > 0 {
		decompressed, err := r.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress details: %w", err)
		}
		e.Details = decompressed
	} else {
		e.Details = details
	}

	return &e, nil
}
