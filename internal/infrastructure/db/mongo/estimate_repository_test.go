package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/finscope/estimates-api/internal/core/domain"
)

const estimatesNS = "estimates.estimates"

// findAndModifyCommand is the part of the findAndModify command the
// repository is responsible for.
type findAndModifyCommand struct {
	Query  bson.Raw `bson:"query"`
	Upsert bool     `bson:"upsert"`
	New    bool     `bson:"new"`
	Update []struct {
		Set struct {
			Periods   bson.Raw `bson:"periods"`
			CreatedAt bson.Raw `bson:"created_at"`
			UpdatedAt bson.Raw `bson:"updated_at"`
		} `bson:"$set"`
	} `bson:"update"`
}

func storedEstimate(createdAt, updatedAt time.Time) bson.D {
	return bson.D{
		{Key: "kind", Value: "earnings"},
		{Key: "ticker", Value: "AAPL"},
		{Key: "user_id", Value: int64(1)},
		{Key: "periods", Value: bson.D{{Key: "currentQtr", Value: 1.5}}},
		{Key: "created_at", Value: createdAt},
		{Key: "updated_at", Value: updatedAt},
	}
}

func TestEstimateRepository_Upsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	mt.Run("insert sends guarded pipeline", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storedEstimate(now, now)}))
		repo := NewEstimateRepository(mt.DB)

		rec, err := repo.Upsert(context.Background(), domain.KindEarnings, "AAPL", 1, domain.Periods{"currentQtr": 1.5}, now)
		require.NoError(mt, err)
		assert.Equal(mt, domain.Periods{"currentQtr": 1.5}, rec.Periods)
		assert.True(mt, rec.CreatedAt.Equal(now))
		assert.True(mt, rec.UpdatedAt.Equal(now))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)

		var cmd findAndModifyCommand
		require.NoError(mt, bson.Unmarshal(evt.Command, &cmd))
		assert.True(mt, cmd.Upsert)
		assert.True(mt, cmd.New)
		assert.Equal(mt, "AAPL", cmd.Query.Lookup("ticker").StringValue())
		assert.Equal(mt, int64(1), cmd.Query.Lookup("user_id").Int64())

		require.Len(mt, cmd.Update, 1)
		set := cmd.Update[0].Set
		_, err = set.Periods.LookupErr("$literal")
		assert.NoError(mt, err, "periods must be replaced as a literal")
		_, err = set.CreatedAt.LookupErr("$ifNull")
		assert.NoError(mt, err, "created_at must keep an existing value")
		_, err = set.UpdatedAt.LookupErr("$max")
		assert.NoError(mt, err, "updated_at must not precede created_at")
	})

	mt.Run("update keeps stored createdAt", func(mt *mtest.T) {
		created := now.Add(-48 * time.Hour)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storedEstimate(created, now)}))
		repo := NewEstimateRepository(mt.DB)

		rec, err := repo.Upsert(context.Background(), domain.KindEarnings, "AAPL", 1, domain.Periods{"currentQtr": 1.5}, now)
		require.NoError(mt, err)
		assert.True(mt, rec.CreatedAt.Equal(created))
		assert.True(mt, rec.UpdatedAt.Equal(now))
	})

	mt.Run("retries once after duplicate key", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11000, Message: "E11000 duplicate key error", Name: "DuplicateKey"}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: storedEstimate(now, now)}),
		)
		repo := NewEstimateRepository(mt.DB)

		rec, err := repo.Upsert(context.Background(), domain.KindEarnings, "AAPL", 1, domain.Periods{"currentQtr": 1.5}, now)
		require.NoError(mt, err)
		assert.Equal(mt, "AAPL", rec.Ticker)

		require.NotNil(mt, mt.GetStartedEvent())
		require.NotNil(mt, mt.GetStartedEvent(), "expected a second findAndModify")
	})

	mt.Run("other errors are not retried", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad value", Name: "BadValue"}))
		repo := NewEstimateRepository(mt.DB)

		_, err := repo.Upsert(context.Background(), domain.KindEarnings, "AAPL", 1, domain.Periods{"currentQtr": 1.5}, now)
		require.Error(mt, err)
		assert.Contains(mt, err.Error(), "upsert estimate")

		require.NotNil(mt, mt.GetStartedEvent())
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestEstimateRepository_Get(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, estimatesNS, mtest.FirstBatch, storedEstimate(now, now)))
		repo := NewEstimateRepository(mt.DB)

		rec, err := repo.Get(context.Background(), domain.KindEarnings, "AAPL", 1)
		require.NoError(mt, err)
		require.NotNil(mt, rec)
		assert.Equal(mt, int64(1), rec.UserID)
		assert.Equal(mt, domain.KindEarnings, rec.Kind)
	})

	mt.Run("absent", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, estimatesNS, mtest.FirstBatch))
		repo := NewEstimateRepository(mt.DB)

		rec, err := repo.Get(context.Background(), domain.KindEarnings, "AAPL", 1)
		require.NoError(mt, err)
		assert.Nil(mt, rec)
	})
}

func TestUpsertPipeline(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	p := upsertPipeline(domain.Periods{"nextQtr": 2}, now)

	require.Len(t, p, 1)
	raw, err := bson.Marshal(p[0])
	require.NoError(t, err)

	set := bson.Raw(raw).Lookup("$set").Document()
	assert.Equal(t, 2.0, set.Lookup("periods", "$literal", "nextQtr").Double())
	_, err = set.LookupErr("created_at", "$ifNull")
	assert.NoError(t, err)
	_, err = set.LookupErr("updated_at", "$max")
	assert.NoError(t, err)
}
