package out_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brack/internal/modules/streak/adapter/out"
	"brack/internal/modules/streak/domain"
	"brack/internal/platform/database"
	"brack/internal/platform/tx"
)

func openStore(t *testing.T) (*out.SQLiteStreakStore, *tx.SQLManager) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "brack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := out.NewSQLiteStreakStore(context.Background(), db)
	require.NoError(t, err)
	return store, tx.NewSQLManager(db)
}

func TestSQLiteProfileUpsert(t *testing.T) {
	t.Parallel()
	store, _ := openStore(t)
	ctx := context.Background()

	missing, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	updated := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, domain.Profile{UserID: "u1", CurrentStreak: 2, LongestStreak: 9, LastReadingDate: "2026-03-15", UpdatedAt: updated}))

	got, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.LongestStreak)
	assert.Equal(t, "2026-03-15", got.LastReadingDate)
	assert.Nil(t, got.StreakFreezeUsedAt)
	assert.True(t, got.UpdatedAt.Equal(updated))

	frozen := updated.Add(time.Hour)
	got.StreakFreezeUsedAt = &frozen
	got.CurrentStreak = 3
	require.NoError(t, store.Save(ctx, *got))

	again, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, again.CurrentStreak)
	require.NotNil(t, again.StreakFreezeUsedAt)
	assert.True(t, again.StreakFreezeUsedAt.Equal(frozen))
}

func TestSQLiteKeepsEveryFreeze(t *testing.T) {
	t.Parallel()
	store, _ := openStore(t)
	ctx := context.Background()

	first := time.Date(2026, 3, 7, 14, 30, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 8)
	require.NoError(t, store.Save(ctx, domain.Profile{UserID: "u1", StreakFreezeUsedAt: &first, UpdatedAt: first}))

	got, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.FrozenAt, 1)

	got.StreakFreezeUsedAt = &second
	got.FrozenAt = append(got.FrozenAt, second)
	require.NoError(t, store.Save(ctx, *got))
	require.NoError(t, store.Save(ctx, *got))

	again, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, again.FrozenAt, 2)
	assert.True(t, again.FrozenAt[0].Equal(first))
	assert.True(t, again.FrozenAt[1].Equal(second))
	assert.True(t, again.StreakFreezeUsedAt.Equal(second))
}

func TestSQLiteHistoryOrdering(t *testing.T) {
	t.Parallel()
	store, _ := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	entries := []domain.HistoryEntry{
		{ID: "a", UserID: "u1", StreakCount: 7, AchievedAt: base},
		{ID: "b", UserID: "u1", StreakCount: 30, AchievedAt: base.AddDate(0, 1, 0)},
		{ID: "c", UserID: "u1", StreakCount: 7, AchievedAt: base.AddDate(0, 2, 0)},
		{ID: "d", UserID: "u2", StreakCount: 99, AchievedAt: base},
	}
	for _, e := range entries {
		require.NoError(t, store.Append(ctx, e))
	}

	got, err := store.List(ctx, "u1")
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids)
}

func TestSQLiteWriteBackIsAtomic(t *testing.T) {
	t.Parallel()
	store, mgr := openStore(t)
	ctx := context.Background()
	boom := errors.New("history unavailable")

	err := mgr.Within(ctx, func(ctx context.Context) error {
		if err := store.Save(ctx, domain.Profile{UserID: "u1", CurrentStreak: 5, LongestStreak: 5, UpdatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
