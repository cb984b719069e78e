package in

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	streakdto "brack/internal/modules/streak/dto"
	streakin "brack/internal/modules/streak/port/in"
	apperrors "brack/internal/platform/errors"
	"brack/internal/platform/httpx"
)

type HTTPHandler struct {
	usecase streakin.Usecase
	logger  *zap.Logger
}

func NewHTTPHandler(usecase streakin.Usecase, logger *zap.Logger) HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return HTTPHandler{usecase: usecase, logger: logger}
}

// Mount registers the streak routes on r.
func (h HTTPHandler) Mount(r chi.Router) {
	r.Get("/milestones", h.milestones)
	r.Route("/users/{userID}", func(u chi.Router) {
		u.Get("/streak", h.show)
		u.Post("/streak/refresh", h.refresh)
		u.Post("/streak/freeze", h.freeze)
		u.Get("/streak/history", h.history)
		u.Get("/calendar", h.calendar)
	})
}

func (h HTTPHandler) show(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Show(r.Context(), streakdto.ShowInput{UserID: chi.URLParam(r, "userID")})
	h.respond(w, http.StatusOK, out, err)
}

func (h HTTPHandler) refresh(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Refresh(r.Context(), streakdto.RefreshInput{UserID: chi.URLParam(r, "userID")})
	h.respond(w, http.StatusOK, out, err)
}

func (h HTTPHandler) freeze(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.UseFreeze(r.Context(), streakdto.FreezeInput{UserID: chi.URLParam(r, "userID")})
	h.respond(w, http.StatusOK, out, err)
}

func (h HTTPHandler) history(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.History(r.Context(), streakdto.HistoryInput{UserID: chi.URLParam(r, "userID")})
	h.respond(w, http.StatusOK, out, err)
}

func (h HTTPHandler) calendar(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days")
	if err != nil {
		httpx.WriteError(w, h.logger, fmt.Errorf("%w: %v", apperrors.ErrInvalidWindow, err))
		return
	}
	out, err := h.usecase.Calendar(r.Context(), streakdto.CalendarInput{UserID: chi.URLParam(r, "userID"), Days: days})
	h.respond(w, http.StatusOK, out, err)
}

func (h HTTPHandler) milestones(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(r.URL.Query().Get("streak")) == "" {
		httpx.WriteErr(w, http.StatusBadRequest, "streak is required")
		return
	}
	streak, err := intQuery(r, "streak")
	if err != nil {
		httpx.WriteError(w, h.logger, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	out, err := h.usecase.Milestones(r.Context(), streakdto.MilestonesInput{Streak: streak})
	h.respond(w, http.StatusOK, out, err)
}

func (h HTTPHandler) respond(w http.ResponseWriter, code int, out any, err error) {
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, code, out)
}

func intQuery(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}
