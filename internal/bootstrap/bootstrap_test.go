package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"brack/internal/bootstrap"
	"brack/internal/platform/config"
)

func newApp(t *testing.T) *bootstrap.App {
	t.Helper()
	app, err := bootstrap.New(context.Background(), config.Default(t.TempDir()), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestRouterEndToEnd(t *testing.T) {
	t.Parallel()
	router := newApp(t).Router()

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, do(http.MethodGet, "/v1/health", "").Code)
	require.Equal(t, http.StatusCreated, do(http.MethodPost, "/v1/users/ana/sessions", `{"book_id":"b1","duration":30}`).Code)

	w := do(http.MethodPost, "/v1/users/ana/streak/refresh", "")
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed struct {
		Streak struct {
			CurrentStreak int `json:"current_streak"`
			LongestStreak int `json:"longest_streak"`
		} `json:"streak"`
		Persisted bool `json:"persisted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.Equal(t, 1, refreshed.Streak.CurrentStreak)
	assert.Equal(t, 1, refreshed.Streak.LongestStreak)
	assert.True(t, refreshed.Persisted)

	w = do(http.MethodGet, "/v1/users/ana/streak/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"streak_count":1`)

	w = do(http.MethodGet, "/v1/users/ana/calendar?days=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cal struct {
		Days []struct {
			HasActivity  bool `json:"has_activity"`
			TotalMinutes int  `json:"total_minutes"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cal))
	require.Len(t, cal.Days, 7)
	assert.True(t, cal.Days[6].HasActivity)
	assert.Equal(t, 30, cal.Days[6].TotalMinutes)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodGet, "/v1/users/ana/calendar?days=9223372036854775807", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodGet, "/v1/users/ana/calendar?days=3661", "").Code)

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/v1/nope", "").Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	app := newApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, "127.0.0.1:0") }()
	cancel()
	require.NoError(t, <-done)
}
