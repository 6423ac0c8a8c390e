package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/finscope/estimates-api/internal/core/ports"
)

// Sequence hands out ids with INCR, which is atomic across every API replica.
// Key format: seq:<name>
type Sequence struct {
	client *redis.Client
}

var _ ports.Sequence = (*Sequence)(nil)

// NewSequence creates a Sequence wrapping the given Redis client.
func NewSequence(client *redis.Client) *Sequence {
	return &Sequence{client: client}
}

// Next returns the next value of the named sequence, starting at 1.
func (s *Sequence) Next(ctx context.Context, name string) (int64, error) {
	n, err := s.client.Incr(ctx, s.key(name)).Result()
	if err != nil {
		return 0, fmt.Errorf("sequence %s: %w", name, err)
	}
	return n, nil
}

func (s *Sequence) key(name string) string {
	return "seq:" + name
}
