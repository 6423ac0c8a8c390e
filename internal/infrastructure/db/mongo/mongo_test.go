package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/finscope/estimates-api/internal/core/domain"
)

func TestKeyFilter(t *testing.T) {
	f := keyFilter(domain.KindRevenue, "aapl", 7)
	assert.Equal(t, bson.D{
		{Key: "kind", Value: "revenue"},
		{Key: "ticker", Value: "aapl"},
		{Key: "user_id", Value: int64(7)},
	}, f)
}

func TestEstimateDocument_ToDomain(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, loc)
	doc := estimateDocument{
		Kind:      "growth",
		Ticker:    "MSFT",
		UserID:    3,
		Periods:   map[string]float64{"next5Years": 12.5},
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	rec := doc.toDomain()
	assert.Equal(t, domain.KindGrowth, rec.Kind)
	assert.Equal(t, "MSFT", rec.Ticker)
	assert.Equal(t, int64(3), rec.UserID)
	assert.Equal(t, domain.Periods{"next5Years": 12.5}, rec.Periods)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, rec.CreatedAt.Equal(created))
}

func TestMongoUser_ToDomain(t *testing.T) {
	u := mongoUser{ID: 4, Username: "alice", Email: "a@example.com", PasswordHash: "$2a$10$x"}

	got := u.toDomain()
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "$2a$10$x", got.PasswordHash)
}
