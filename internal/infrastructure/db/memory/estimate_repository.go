package memory

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/core/ports"
)

const shardCount = 32

type estimateKey struct {
	kind   domain.EstimateKind
	ticker string
	userID int64
}

type estimateShard struct {
	mu      sync.RWMutex
	records map[estimateKey]*domain.EstimateRecord
}

// EstimateRepository implements ports.EstimateRepository. Keys are spread over
// a fixed set of lock-striped shards, so writers to different keys rarely
// contend and writers to the same key are serialised.
type EstimateRepository struct {
	shards [shardCount]*estimateShard
}

var _ ports.EstimateRepository = (*EstimateRepository)(nil)

func NewEstimateRepository() *EstimateRepository {
	r := &EstimateRepository{}
	for i := range r.shards {
		r.shards[i] = &estimateShard{records: make(map[estimateKey]*domain.EstimateRecord)}
	}
	return r
}

func (r *EstimateRepository) Get(_ context.Context, kind domain.EstimateKind, ticker string, userID int64) (*domain.EstimateRecord, error) {
	key := estimateKey{kind: kind, ticker: ticker, userID: userID}
	s := r.shardFor(key)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[key].Clone(), nil
}

func (r *EstimateRepository) Upsert(_ context.Context, kind domain.EstimateKind, ticker string, userID int64, periods domain.Periods, now time.Time) (*domain.EstimateRecord, error) {
	key := estimateKey{kind: kind, ticker: ticker, userID: userID}
	s := r.shardFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		rec = &domain.EstimateRecord{
			Kind:      kind,
			Ticker:    ticker,
			UserID:    userID,
			CreatedAt: now,
		}
		s.records[key] = rec
	}
	rec.Periods = periods.Clone()
	// updatedAt never precedes createdAt, even if the wall clock steps back.
	if now.Before(rec.CreatedAt) {
		now = rec.CreatedAt
	}
	rec.UpdatedAt = now
	return rec.Clone(), nil
}

// shardFor maps a key deterministically to one of the shards.
func (r *EstimateRepository) shardFor(key estimateKey) *estimateShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.kind))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(key.ticker))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strconv.FormatInt(key.userID, 10)))
	return r.shards[h.Sum32()%shardCount]
}
