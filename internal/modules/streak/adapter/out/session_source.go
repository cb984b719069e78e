package out

import (
	"context"

	sessiondto "brack/internal/modules/session/dto"
	sessionin "brack/internal/modules/session/port/in"
	"brack/internal/modules/streak/domain"
	streakout "brack/internal/modules/streak/port/out"
)

// SessionSourceAdapter exposes the session module's log to the streak core.
type SessionSourceAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionSourceAdapter(sessions sessionin.Usecase) streakout.SessionSource {
	return SessionSourceAdapter{sessions: sessions}
}

func (a SessionSourceAdapter) ListSessions(ctx context.Context, userID string) ([]domain.ReadingSession, error) {
	listed, err := a.sessions.List(ctx, sessiondto.ListInput{UserID: userID})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReadingSession, 0, len(listed))
	for _, s := range listed {
		out = append(out, domain.ReadingSession{
			ID:        s.ID,
			UserID:    s.UserID,
			BookID:    s.BookID,
			CreatedAt: s.CreatedAt,
			Duration:  s.DurationMin,
		})
	}
	return out, nil
}
