package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"brack/internal/modules/session/domain"
	sessionout "brack/internal/modules/session/port/out"
	"brack/internal/platform/clock"
	"brack/internal/platform/id"
)

type SessionService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  sessionout.SessionStore
	logger *zap.Logger
}

func NewSessionService(clock clock.Clock, idGen id.Generator, store sessionout.SessionStore, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{clock: clock, idGen: idGen, store: store, logger: logger}
}

// Log records a finished session. A zero at means now.
func (s *SessionService) Log(ctx context.Context, userID, bookID string, durationMin *int, at time.Time) (domain.Session, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	session := domain.Session{
		ID:          s.idGen.New(),
		UserID:      strings.TrimSpace(userID),
		BookID:      strings.TrimSpace(bookID),
		DurationMin: durationMin,
		Origin:      domain.OriginLog,
		CreatedAt:   at,
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.logger.Debug("session logged",
		zap.String("session_id", session.ID),
		zap.String("user_id", session.UserID),
		zap.Time("created_at", session.CreatedAt))
	return session, nil
}

func (s *SessionService) Start(_ context.Context, userID, bookID string) (domain.ActiveSession, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.ActiveSession{}, fmt.Errorf("user id is required")
	}
	return domain.ActiveSession{
		SessionID: s.idGen.New(),
		UserID:    userID,
		BookID:    bookID,
		StartedAt: s.clock.Now(),
	}, nil
}

func (s *SessionService) End(ctx context.Context, active domain.ActiveSession) (domain.Session, error) {
	endedAt := s.clock.Now()
	duration := int(endedAt.Sub(active.StartedAt).Minutes())
	if duration < 0 {
		duration = 0
	}
	startedAt := active.StartedAt
	session := domain.Session{
		ID:          active.SessionID,
		UserID:      active.UserID,
		BookID:      active.BookID,
		StartedAt:   &startedAt,
		EndedAt:     &endedAt,
		DurationMin: &duration,
		Origin:      domain.OriginTimer,
		CreatedAt:   endedAt,
	}
	if endedAt.Before(startedAt) {
		session.EndedAt = &startedAt
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return domain.Session{}, err
	}
	s.logger.Debug("session ended",
		zap.String("session_id", session.ID),
		zap.Int("duration_min", duration))
	return session, nil
}

func (s *SessionService) List(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.store.List(ctx, userID, limit)
}

// Import stores notes as sessions for userID, skipping ids already present.
// Notes without an id get one derived from user, note key and start time, so
// importing the same directory twice is a no-op.
func (s *SessionService) Import(ctx context.Context, userID string, notes []domain.Note) (int, int, error) {
	imported, skipped := 0, 0
	for _, note := range notes {
		noteID := note.ID
		if noteID == "" {
			key := note.Key
			if key == "" {
				key = note.Path
			}
			noteID = id.Stable(userID, key, note.StartedAt.UTC().Format(time.RFC3339))
		}
		exists, err := s.store.Exists(ctx, noteID)
		if err != nil {
			return imported, skipped, err
		}
		if exists {
			skipped++
			continue
		}
		startedAt := note.StartedAt
		createdAt := startedAt
		if note.EndedAt != nil {
			createdAt = *note.EndedAt
		}
		session := domain.Session{
			ID:          noteID,
			UserID:      userID,
			BookID:      note.BookID,
			StartedAt:   &startedAt,
			EndedAt:     note.EndedAt,
			DurationMin: note.DurationMin,
			Origin:      domain.OriginImport,
			CreatedAt:   createdAt,
		}
		if err := session.Validate(); err != nil {
			return imported, skipped, fmt.Errorf("import %s: %w", note.Path, err)
		}
		if err := s.store.Save(ctx, session); err != nil {
			return imported, skipped, err
		}
		imported++
	}
	s.logger.Info("sessions imported",
		zap.String("user_id", userID),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped))
	return imported, skipped, nil
}
