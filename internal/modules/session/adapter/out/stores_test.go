package out_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brack/internal/modules/session/adapter/out"
	"brack/internal/modules/session/domain"
	sessionout "brack/internal/modules/session/port/out"
	"brack/internal/platform/database"
	apperrors "brack/internal/platform/errors"
	"brack/internal/platform/tx"
)

func openSQLiteStore(t *testing.T) (sessionout.SessionStore, *tx.SQLManager) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "brack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := out.NewSQLiteSessionStore(context.Background(), db)
	require.NoError(t, err)
	return store, tx.NewSQLManager(db)
}

func TestSQLiteSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()
	store, _ := openSQLiteStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	end := start.Add(35 * time.Minute)
	minutes := 35
	full := domain.Session{
		ID: "s-full", UserID: "u1", BookID: "b1",
		StartedAt: &start, EndedAt: &end, DurationMin: &minutes,
		Origin: domain.OriginTimer, CreatedAt: end,
	}
	bare := domain.Session{ID: "s-bare", UserID: "u1", Origin: domain.OriginLog, CreatedAt: start.Add(-24 * time.Hour)}
	other := domain.Session{ID: "s-other", UserID: "u2", Origin: domain.OriginLog, CreatedAt: start}

	for _, s := range []domain.Session{bare, full, other} {
		require.NoError(t, store.Save(ctx, s))
	}

	got, err := store.List(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s-full", got[0].ID)
	assert.Equal(t, 35, *got[0].DurationMin)
	assert.True(t, got[0].StartedAt.Equal(start))
	assert.True(t, got[0].EndedAt.Equal(end))
	assert.Equal(t, "s-bare", got[1].ID)
	assert.Nil(t, got[1].DurationMin)
	assert.Nil(t, got[1].StartedAt)
	assert.Empty(t, got[1].BookID)

	ok, err := store.Exists(ctx, "s-other")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteSessionStoreHonoursTransactionRollback(t *testing.T) {
	t.Parallel()
	store, mgr := openSQLiteStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := mgr.Within(ctx, func(ctx context.Context) error {
		if err := store.Save(ctx, domain.Session{ID: "s1", UserID: "u1", Origin: domain.OriginLog, CreatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.List(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileActiveSessionStore(t *testing.T) {
	t.Parallel()
	store := out.NewFileActiveSessionStore(filepath.Join(t.TempDir(), "state", "active-session.json"))
	ctx := context.Background()

	_, err := store.LoadActive(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)

	active := domain.ActiveSession{SessionID: "s1", UserID: "u1", BookID: "b1", StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, store.SaveActive(ctx, active))
	got, err := store.LoadActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, active.SessionID, got.SessionID)
	assert.True(t, active.StartedAt.Equal(got.StartedAt))

	require.NoError(t, store.ClearActive(ctx))
	require.NoError(t, store.ClearActive(ctx))
	_, err = store.LoadActive(ctx)
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestFileActiveSessionStoreRejectsNewerVersion(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active-session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 9, "session": {"session_id": "s1"}}`), 0o644))

	_, err := out.NewFileActiveSessionStore(path).LoadActive(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNoActiveSession)
	assert.Contains(t, err.Error(), "version 9")
}

func TestFileActiveSessionStoreTreatsEmptyEnvelopeAsIdle(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "active-session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 1, "session": null}`), 0o644))

	_, err := out.NewFileActiveSessionStore(path).LoadActive(context.Background())
	require.ErrorIs(t, err, apperrors.ErrNoActiveSession)
}

func TestVaultNoteSourceRejectsBadTimestamps(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	note := "---\nid: n1\nstarted_at: last tuesday\n---\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.md"), []byte(note), 0o644))

	_, err := out.NewVaultNoteSource().ListNotes(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "started_at")
}

func TestVaultNoteSourcePrefersBookID(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	note := "---\nid: n1\nbook_id: b-7\nsource_id: src-1\nstarted_at: 2026-02-01T10:00:00Z\n---\nbody\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte(note), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte(note), 0o644))

	notes, err := out.NewVaultNoteSource().ListNotes(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "b-7", notes[0].BookID)
	assert.Equal(t, "a.md", notes[0].Key)
	assert.Nil(t, notes[0].EndedAt)
	assert.Nil(t, notes[0].DurationMin)
}
