package out_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brack/internal/modules/session/adapter/out"
	"brack/internal/modules/session/domain"
	"brack/internal/platform/database"
)

func TestPostgresSessionStore(t *testing.T) {
	dsn := os.Getenv("BRACK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("BRACK_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store, err := out.NewPostgresSessionStore(ctx, pool)
	require.NoError(t, err)

	userID := "test-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM reading_sessions WHERE user_id = $1`, userID)
	})

	minutes := 12
	at := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	id := uuid.NewString()
	require.NoError(t, store.Save(ctx, domain.Session{ID: id, UserID: userID, DurationMin: &minutes, Origin: domain.OriginLog, CreatedAt: at}))
	require.NoError(t, store.Save(ctx, domain.Session{ID: uuid.NewString(), UserID: userID, Origin: domain.OriginLog, CreatedAt: at.Add(-time.Hour)}))

	got, err := store.List(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, 12, *got[0].DurationMin)
	assert.True(t, got[0].CreatedAt.Equal(at))
	assert.Nil(t, got[1].DurationMin)

	ok, err := store.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}
