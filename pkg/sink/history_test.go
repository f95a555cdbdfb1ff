package sink

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupTestDB creates a new SQLite database and an SQLSink for testing.
// It uses t.Cleanup to ensure resources are released.
func setupTestDB(t *testing.T) (*sql.DB, *SQLSink) {
	dbFile := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", dbFile)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, SetupSchema(db))
	// Calling it twice must be harmless.
	require.NoError(t, SetupSchema(db))

	s, err := NewSQLSink(db)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return db, s
}

func TestSQLSinkRoundTrip(t *testing.T) {
	db, s := setupTestDB(t)
	ctx := context.Background()

	base := time.Unix(1_700_000_000, 0)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	outputs := []Output{
		{Text: "one fish two fish", Policy: "plain", Seed: 1},
		{Text: "red fish blue fish", Policy: "budgeted", Seed: ^uint64(0)},
		{Text: "old fish new fish", Policy: "truncated", Seed: 0},
	}
	for _, out := range outputs {
		require.NoError(t, s.Write(ctx, out))
	}

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generated_texts").Scan(&count))
	require.Equal(t, 3, count)

	records, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "old fish new fish", records[0].Text, "newest first")
	require.Equal(t, "truncated", records[0].Policy)
	require.Equal(t, "red fish blue fish", records[1].Text)
	require.Equal(t, ^uint64(0), records[1].Seed, "seed survives signed storage")
	require.Equal(t, base.Add(2*time.Second).UnixNano(), records[1].CreatedAt.UnixNano())
	require.NotEqual(t, records[0].ID, records[1].ID)
	require.Len(t, records[0].ID, 36)
}

func TestSQLSinkRecentEmpty(t *testing.T) {
	_, s := setupTestDB(t)
	records, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestNewSQLSinkWithoutSchema(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = NewSQLSink(db)
	require.Error(t, err, "statements cannot be prepared before SetupSchema")
}
