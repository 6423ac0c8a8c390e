package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

const collectionEstimates = "estimates"

// EstimateRepository implements ports.EstimateRepository with one document per
// (kind, ticker, user_id).
type EstimateRepository struct {
	col *mongo.Collection
}

var _ ports.EstimateRepository = (*EstimateRepository)(nil)

func NewEstimateRepository(db *mongo.Database) *EstimateRepository {
	return &EstimateRepository{col: db.Collection(collectionEstimates)}
}

type estimateDocument struct {
	Kind      string             `bson:"kind"`
	Ticker    string             `bson:"ticker"`
	UserID    int64              `bson:"user_id"`
	Periods   map[string]float64 `bson:"periods"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d estimateDocument) toDomain() *domain.EstimateRecord {
	return &domain.EstimateRecord{
		Kind:      domain.EstimateKind(d.Kind),
		Ticker:    d.Ticker,
		UserID:    d.UserID,
		Periods:   domain.Periods(d.Periods),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func keyFilter(kind domain.EstimateKind, ticker string, userID int64) bson.D {
	return bson.D{
		{Key: "kind", Value: string(kind)},
		{Key: "ticker", Value: ticker},
		{Key: "user_id", Value: userID},
	}
}

func (r *EstimateRepository) Get(ctx context.Context, kind domain.EstimateKind, ticker string, userID int64) (*domain.EstimateRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc estimateDocument
	if err := r.col.FindOne(ctx, keyFilter(kind, ticker, userID)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find estimate: %w", err)
	}
	return doc.toDomain(), nil
}

// Upsert replaces the whole periods sub-document in a single
// FindOneAndUpdate, so concurrent writers never interleave keys. The update is
// a pipeline: created_at keeps its stored value and updated_at is never
// earlier than it. Two racing inserts can both miss and one then fails on the
// unique index; that call is retried once as an update.
func (r *EstimateRepository) Upsert(ctx context.Context, kind domain.EstimateKind, ticker string, userID int64, periods domain.Periods, now time.Time) (*domain.EstimateRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := upsertPipeline(periods, now)
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc estimateDocument
	err := r.col.FindOneAndUpdate(ctx, keyFilter(kind, ticker, userID), update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		err = r.col.FindOneAndUpdate(ctx, keyFilter(kind, ticker, userID), update, opts).Decode(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert estimate: %w", err)
	}
	return doc.toDomain(), nil
}

func upsertPipeline(periods domain.Periods, now time.Time) mongo.Pipeline {
	createdAt := bson.D{{Key: "$ifNull", Value: bson.A{"$created_at", now}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "periods", Value: bson.D{{Key: "$literal", Value: map[string]float64(periods)}}},
			{Key: "created_at", Value: createdAt},
			{Key: "updated_at", Value: bson.D{{Key: "$max", Value: bson.A{now, createdAt}}}},
		}}},
	}
}

// EnsureIndexes creates the unique compound key index.
func (r *EstimateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "kind", Value: 1},
			{Key: "ticker", Value: 1},
			{Key: "user_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
