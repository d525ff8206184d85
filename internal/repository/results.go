package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/entity"
)

// LabResultRepository stores one latest accepted result per user.
type LabResultRepository interface {
	UpsertLatest(ctx context.Context, userID uuid.UUID, items []entity.MeasurementRecord, analysis *string) (*entity.LabResult, error)
	GetLatest(ctx context.Context, userID uuid.UUID) (*entity.LabResult, error)
}

type labResultRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewLabResultRepository(pool *pgxpool.Pool, logger *slog.Logger) LabResultRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &labResultRepository{pool: pool, log: logger}
}

// UpsertLatest replaces the user's stored result; each user keeps only
// the most recent accepted lab report.
func (r *labResultRepository) UpsertLatest(ctx context.Context, userID uuid.UUID, items []entity.MeasurementRecord, analysis *string) (*entity.LabResult, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}

	const q = `
		INSERT INTO lab_results (id, user_id, items, analysis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (user_id) DO UPDATE
		SET items = EXCLUDED.items, analysis = EXCLUDED.analysis, updated_at = now()
		RETURNING id, user_id, items, analysis, created_at, updated_at`

	row := r.pool.QueryRow(ctx, q, uuid.New(), userID, payload, analysis)
	res, err := scanLabResult(row)
	if err != nil {
		r.log.Error("repository.results.upsert_failed", "user_id", userID, "error", err)
		return nil, common.WrapError(err, "upsert lab result")
	}

	r.log.Info("repository.results.upserted",
		"user_id", userID, "result_id", res.ID, "items", len(res.Items))
	return res, nil
}

func (r *labResultRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*entity.LabResult, error) {
	const q = `
		SELECT id, user_id, items, analysis, created_at, updated_at
		FROM lab_results WHERE user_id = $1`

	res, err := scanLabResult(r.pool.QueryRow(ctx, q, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.WrapError(err, "load lab result")
	}
	return res, nil
}

func scanLabResult(row pgx.Row) (*entity.LabResult, error) {
	var (
		res     entity.LabResult
		payload []byte
	)
	if err := row.Scan(&res.ID, &res.UserID, &payload, &res.Analysis, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &res.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return &res, nil
}
