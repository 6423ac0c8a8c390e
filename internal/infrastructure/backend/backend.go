// Package backend selects and wires the storage implementation named by
// STORE_BACKEND.
package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/finscope/estimates-api/internal/core/ports"
	"github.com/finscope/estimates-api/internal/infrastructure/db/memory"
	mongodb "github.com/finscope/estimates-api/internal/infrastructure/db/mongo"
	"github.com/finscope/estimates-api/internal/infrastructure/db/postgres"
	redisdb "github.com/finscope/estimates-api/internal/infrastructure/db/redis"
	"github.com/finscope/estimates-api/internal/pkg/config"
)

// Backend is the set of storage ports plus the probes for whatever external
// services they depend on.
type Backend struct {
	Users     ports.UserRepository
	Estimates ports.EstimateRepository
	Audit     ports.AuditLog
	Probes    []ports.DependencyProbe

	closers []func(context.Context) error
}

// Close releases every connection opened by Open, in reverse order.
func (b *Backend) Close(ctx context.Context) error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Memory returns a process-local backend with no external dependencies.
func Memory() *Backend {
	return &Backend{
		Users:     memory.NewUserRepository(),
		Estimates: memory.NewEstimateRepository(),
		Audit:     memory.NewAuditLog(),
	}
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return Memory(), nil
	case config.BackendMongo:
		return openMongo(ctx, cfg, log)
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	b := &Backend{}

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	b.closers = append(b.closers, mongoClient.Disconnect)
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	redisClient, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}
	b.closers = append(b.closers, func(context.Context) error { return redisClient.Close() })
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	store, err := mongodb.NewStore(ctx, mongoDB, redisdb.NewSequence(redisClient))
	if err != nil {
		_ = b.Close(ctx)
		return nil, err
	}

	b.Users = store.Users
	b.Estimates = store.Estimates
	b.Audit = store.Audit
	b.Probes = []ports.DependencyProbe{
		mongodb.Probe(mongoClient),
		redisdb.Probe(redisClient),
	}
	return b, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Backend, error) {
	db, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info().Msg("connected to PostgreSQL, migrations applied")

	store := postgres.NewStore(db)
	return &Backend{
		Users:     store.Users,
		Estimates: store.Estimates,
		Audit:     store.Audit,
		Probes:    []ports.DependencyProbe{postgres.Probe(db)},
		closers:   []func(context.Context) error{func(context.Context) error { return db.Close() }},
	}, nil
}
