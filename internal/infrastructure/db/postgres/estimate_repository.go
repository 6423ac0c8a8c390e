package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

// EstimateRepository implements ports.EstimateRepository with one row per
// (kind, ticker, user_id) and periods stored as JSONB.
type EstimateRepository struct {
	db DBTX
}

var _ ports.EstimateRepository = (*EstimateRepository)(nil)

func NewEstimateRepository(db DBTX) *EstimateRepository {
	return &EstimateRepository{db: db}
}

func (r *EstimateRepository) Get(ctx context.Context, kind domain.EstimateKind, ticker string, userID int64) (*domain.EstimateRecord, error) {
	query :=
		`SELECT periods, created_at, updated_at FROM estimates
		 WHERE kind = $1 AND ticker = $2 AND user_id = $3`

	rec := &domain.EstimateRecord{Kind: kind, Ticker: ticker, UserID: userID}
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, string(kind), ticker, userID).Scan(&raw, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if err := json.Unmarshal(raw, &rec.Periods); err != nil {
		return nil, fmt.Errorf("decode periods: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

// Upsert is a single INSERT ... ON CONFLICT statement; the row lock taken on
// conflict serialises concurrent writers to the same key.
func (r *EstimateRepository) Upsert(ctx context.Context, kind domain.EstimateKind, ticker string, userID int64, periods domain.Periods, now time.Time) (*domain.EstimateRecord, error) {
	query :=
		`INSERT INTO estimates (kind, ticker, user_id, periods, created_at, updated_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5, $5)
		 ON CONFLICT (kind, ticker, user_id) DO UPDATE
		 SET periods = EXCLUDED.periods,
		     updated_at = GREATEST(EXCLUDED.updated_at, estimates.created_at)
		 RETURNING created_at, updated_at`

	raw, err := json.Marshal(periods)
	if err != nil {
		return nil, fmt.Errorf("encode periods: %w", err)
	}

	rec := &domain.EstimateRecord{
		Kind:    kind,
		Ticker:  ticker,
		UserID:  userID,
		Periods: periods.Clone(),
	}
	err = r.db.QueryRowContext(ctx, query, string(kind), ticker, userID, string(raw), now).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
