package in

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	sessiondto "brack/internal/modules/session/dto"
	sessionin "brack/internal/modules/session/port/in"
	apperrors "brack/internal/platform/errors"
	"brack/internal/platform/httpx"
)

type HTTPHandler struct {
	usecase sessionin.Usecase
	logger  *zap.Logger
}

func NewHTTPHandler(usecase sessionin.Usecase, logger *zap.Logger) HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return HTTPHandler{usecase: usecase, logger: logger}
}

// Mount registers the session routes on r.
func (h HTTPHandler) Mount(r chi.Router) {
	r.Get("/users/{userID}/sessions", h.list)
	r.Post("/users/{userID}/sessions", h.log)
}

type logRequest struct {
	BookID   string  `json:"book_id"`
	Duration *int    `json:"duration"`
	At       *string `json:"at"`
}

func (h HTTPHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.WriteErr(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	out, err := h.usecase.List(r.Context(), sessiondto.ListInput{UserID: chi.URLParam(r, "userID"), Limit: limit})
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (h HTTPHandler) log(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	input := sessiondto.LogInput{
		UserID:      chi.URLParam(r, "userID"),
		BookID:      strings.TrimSpace(req.BookID),
		DurationMin: req.Duration,
	}
	if req.At != nil && strings.TrimSpace(*req.At) != "" {
		at, err := time.Parse(time.RFC3339, *req.At)
		if err != nil {
			httpx.WriteError(w, h.logger, fmt.Errorf("%w: at must be RFC3339", apperrors.ErrInvalidInput))
			return
		}
		input.At = at
	}
	out, err := h.usecase.Log(r.Context(), input)
	if err != nil {
		httpx.WriteError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, out)
}
