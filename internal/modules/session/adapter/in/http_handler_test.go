package in_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	sessionhttp "brack/internal/modules/session/adapter/in"
	sessiondto "brack/internal/modules/session/dto"
	apperrors "brack/internal/platform/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeUsecase struct {
	logged sessiondto.LogInput
	listed sessiondto.ListInput
}

func (f *fakeUsecase) Log(_ context.Context, input sessiondto.LogInput) (sessiondto.SessionOutput, error) {
	if input.UserID == "" {
		return sessiondto.SessionOutput{}, apperrors.ErrInvalidInput
	}
	f.logged = input
	return sessiondto.SessionOutput{ID: "s1", UserID: input.UserID, DurationMin: input.DurationMin, Origin: "log", CreatedAt: input.At}, nil
}

func (f *fakeUsecase) Start(context.Context, sessiondto.StartInput) (sessiondto.StartOutput, error) {
	return sessiondto.StartOutput{}, nil
}

func (f *fakeUsecase) End(context.Context, sessiondto.EndInput) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{}, nil
}

func (f *fakeUsecase) GetActive(context.Context) (sessiondto.ActiveSessionOutput, error) {
	return sessiondto.ActiveSessionOutput{}, apperrors.ErrNoActiveSession
}

func (f *fakeUsecase) List(_ context.Context, input sessiondto.ListInput) ([]sessiondto.SessionOutput, error) {
	f.listed = input
	return []sessiondto.SessionOutput{{ID: "s1", UserID: input.UserID, Origin: "log"}}, nil
}

func (f *fakeUsecase) Import(context.Context, sessiondto.ImportInput) (sessiondto.ImportOutput, error) {
	return sessiondto.ImportOutput{}, nil
}

func newRouter(uc *fakeUsecase) http.Handler {
	r := chi.NewRouter()
	sessionhttp.NewHTTPHandler(uc, nil).Mount(r)
	return r
}

func TestListSessions(t *testing.T) {
	uc := &fakeUsecase{}
	w := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/u1/sessions?limit=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sessiondto.ListInput{UserID: "u1", Limit: 5}, uc.listed)
	var body struct {
		Sessions []map[string]any `json:"sessions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Sessions, 1)
	assert.Nil(t, body.Sessions[0]["duration"])
}

func TestListSessionsRejectsBadLimit(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(&fakeUsecase{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/u1/sessions?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogSession(t *testing.T) {
	uc := &fakeUsecase{}
	body := strings.NewReader(`{"book_id":" b1 ","duration":25,"at":"2026-03-14T21:00:00Z"}`)
	w := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/u1/sessions", body))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "b1", uc.logged.BookID)
	require.NotNil(t, uc.logged.DurationMin)
	assert.Equal(t, 25, *uc.logged.DurationMin)
	assert.True(t, uc.logged.At.Equal(time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)))
}

func TestLogSessionBadInput(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{`,
		"bad time":       `{"at":"yesterday"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newRouter(&fakeUsecase{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/u1/sessions", strings.NewReader(payload)))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
