package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kakeibo/internal/core"
)

func newTestSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "db", "kakeibo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteEmpty(t *testing.T) {
	repo := newTestSQLite(t)

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.Record{}, got)
}

func TestSQLiteRoundTripKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLite(t)

	want := sampleRecords()
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// overwrite with a shorter collection
	require.NoError(t, repo.Save(ctx, want[2:]))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want[2:], got)
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kakeibo.db")

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sampleRecords()))
	require.NoError(t, repo.Close())

	// migrations are a no-op the second time
	repo, err = NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), got)
}

func TestSQLiteCorruptRows(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		method string
		amount int64
	}{
		{"bad date", "not a date", "現金", 1},
		{"missing date", "", "現金", 1},
		{"negative amount", "2024-03-01", "現金", -5},
		{"sentinel method", "2024-03-01", "---", 5},
		{"empty method", "2024-03-01", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newTestSQLite(t)

			_, err := repo.db.ExecContext(ctx,
				`INSERT INTO records (position, date, shop, payment_method, amount) VALUES (0, ?, '', ?, ?)`,
				tt.date, tt.method, tt.amount)
			require.NoError(t, err)

			records, err := repo.Load(ctx)
			require.Error(t, err)
			assert.Nil(t, records)
			assert.True(t, core.IsCorruptState(err), "expected corrupt state, got %v", err)
		})
	}
}
