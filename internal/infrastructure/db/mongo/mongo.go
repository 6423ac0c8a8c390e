// Package mongo implements the storage ports on MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/finscope/estimates-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Store bundles the Mongo-backed repositories sharing one database.
type Store struct {
	Users     *UserRepository
	Estimates *EstimateRepository
	Audit     *AuditLog
}

// NewStore builds the repositories and creates their indexes.
func NewStore(ctx context.Context, db *mongo.Database, seq ports.Sequence) (*Store, error) {
	s := &Store{
		Users:     NewUserRepository(db, seq),
		Estimates: NewEstimateRepository(db),
		Audit:     NewAuditLog(db),
	}
	if err := s.Users.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("users indexes: %w", err)
	}
	if err := s.Estimates.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("estimates indexes: %w", err)
	}
	return s, nil
}

// Probe reports whether the primary is reachable.
func Probe(client *mongo.Client) ports.DependencyProbe {
	return ports.DependencyProbe{
		Name: "mongo",
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}
}
