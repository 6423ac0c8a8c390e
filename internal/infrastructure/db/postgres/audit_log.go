package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

// AuditLog appends entries to the estimate_audit table.
type AuditLog struct {
	db DBTX
}

var _ ports.AuditLog = (*AuditLog)(nil)

func NewAuditLog(db DBTX) *AuditLog {
	return &AuditLog{db: db}
}

func (l *AuditLog) Record(ctx context.Context, entry domain.AuditEntry) error {
	query :=
		`INSERT INTO estimate_audit (user_id, action, kind, ticker, periods, at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6)`

	raw, err := json.Marshal(entry.Periods)
	if err != nil {
		return fmt.Errorf("encode periods: %w", err)
	}
	if _, err := l.db.ExecContext(ctx, query,
		entry.UserID, entry.Action, string(entry.Kind), entry.Ticker, string(raw), entry.At.UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
