package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finscope/estimates-api/internal/core/domain"
	"github.com/finscope/estimates-api/internal/infrastructure/db/postgres/migrations"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func quarterly(v float64) domain.Periods {
	return domain.Periods{
		domain.PeriodCurrentQtr:  v,
		domain.PeriodNextQtr:     v,
		domain.PeriodCurrentYear: v,
		domain.PeriodNextYear:    v,
	}
}

const quarterlyJSON = `{"currentQtr":1.5,"currentYear":1.5,"nextQtr":1.5,"nextYear":1.5}`

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password_hash\).*RETURNING\s+id$`).
		WithArgs("alice", "a@example.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	got, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("alice", "", "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "hash"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestUserRepository_Create_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicateUsername)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}).
			AddRow(int64(1), "alice", "a@example.com", "hash"))

	got, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash"}))

	got, err := repo.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ---------------------------------------------------------------------------
// Estimates
// ---------------------------------------------------------------------------

func TestEstimateRepository_Upsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEstimateRepository(db)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+estimates.*ON\s+CONFLICT\s+\(kind,\s*ticker,\s*user_id\)\s+DO\s+UPDATE.*RETURNING\s+created_at,\s*updated_at`).
		WithArgs("earnings", "AAPL", int64(1), quarterlyJSON, now).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, now))

	rec, err := repo.Upsert(context.Background(), domain.KindEarnings, "AAPL", 1, quarterly(1.5), now)
	require.NoError(t, err)
	assert.Equal(t, created, rec.CreatedAt)
	assert.Equal(t, now, rec.UpdatedAt)
	assert.Equal(t, quarterly(1.5), rec.Periods)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEstimateRepository_Upsert_DBError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEstimateRepository(db)

	mock.ExpectQuery(`INSERT\s+INTO\s+estimates`).WillReturnError(errors.New("db down"))

	_, err := repo.Upsert(context.Background(), domain.KindEarnings, "AAPL", 1, quarterly(1.5), time.Now())
	assert.Error(t, err)
}

func TestEstimateRepository_Get(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEstimateRepository(db)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)^SELECT\s+periods,\s*created_at,\s*updated_at\s+FROM\s+estimates\s+WHERE\s+kind\s*=\s*\$1\s+AND\s+ticker\s*=\s*\$2\s+AND\s+user_id\s*=\s*\$3$`).
		WithArgs("revenue", "MSFT", int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"periods", "created_at", "updated_at"}).
			AddRow([]byte(quarterlyJSON), ts, ts))

	rec, err := repo.Get(context.Background(), domain.KindRevenue, "MSFT", 2)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, quarterly(1.5), rec.Periods)
	assert.Equal(t, int64(2), rec.UserID)
	assert.Equal(t, domain.KindRevenue, rec.Kind)
}

func TestEstimateRepository_Get_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEstimateRepository(db)

	mock.ExpectQuery(`FROM\s+estimates`).
		WillReturnRows(sqlmock.NewRows([]string{"periods", "created_at", "updated_at"}))

	rec, err := repo.Get(context.Background(), domain.KindRevenue, "MSFT", 2)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

// ---------------------------------------------------------------------------
// Audit
// ---------------------------------------------------------------------------

func TestAuditLog_Record(t *testing.T) {
	db, mock := newMock(t)
	log := NewAuditLog(db)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT\s+INTO\s+estimate_audit`).
		WithArgs(int64(1), "SAVE_EARNINGS_ESTIMATE", "earnings", "AAPL", quarterlyJSON, at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := log.Record(context.Background(), domain.AuditEntry{
		UserID: 1, Action: "SAVE_EARNINGS_ESTIMATE", Kind: domain.KindEarnings,
		Ticker: "AAPL", Periods: quarterly(1.5), At: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Migrations
// ---------------------------------------------------------------------------

func TestMigrate_UsesEmbeddedFS(t *testing.T) {
	var gotDir string
	orig := gooseUp
	gooseUp = func(_ context.Context, _ *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}
	t.Cleanup(func() { gooseUp = orig })

	require.NoError(t, Migrate(context.Background(), nil))
	assert.Equal(t, ".", gotDir)

	files, err := fs.Glob(migrations.Migrations, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "00001_init.sql")
}

func TestMigrate_PropagatesError(t *testing.T) {
	orig := gooseUp
	gooseUp = func(context.Context, *sql.DB, string) error { return errors.New("boom") }
	t.Cleanup(func() { gooseUp = orig })

	err := Migrate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("plain")))
}
