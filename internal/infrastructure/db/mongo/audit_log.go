package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

const collectionAudit = "estimate_audit"

// AuditLog persists audit entries to the estimate_audit collection.
type AuditLog struct {
	col *mongo.Collection
}

var _ ports.AuditLog = (*AuditLog)(nil)

func NewAuditLog(db *mongo.Database) *AuditLog {
	return &AuditLog{col: db.Collection(collectionAudit)}
}

func (l *AuditLog) Record(ctx context.Context, entry domain.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id": entry.UserID,
		"action":  entry.Action,
		"kind":    string(entry.Kind),
		"ticker":  entry.Ticker,
		"periods": map[string]float64(entry.Periods),
		"at":      entry.At.UTC(),
	}
	if _, err := l.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
