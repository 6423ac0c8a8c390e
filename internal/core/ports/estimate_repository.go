package ports

import (
	"context"
	"time"

	"github.com/finscope/estimates-api/internal/core/domain"
)

// EstimateRepository persists estimate records keyed by (kind, ticker, userID).
// Tickers are matched literally.
type EstimateRepository interface {
	// Get returns (nil, nil) when nothing has been saved for the key.
	Get(ctx context.Context, kind domain.EstimateKind, ticker string, userID int64) (*domain.EstimateRecord, error)

	// Upsert atomically replaces the periods of the record for the key, or
	// creates it with createdAt = updatedAt = now. An existing createdAt is
	// never modified.
	Upsert(ctx context.Context, kind domain.EstimateKind, ticker string, userID int64, periods domain.Periods, now time.Time) (*domain.EstimateRecord, error)
}

// AuditLog stores the audit trail of estimate mutations.
type AuditLog interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}
