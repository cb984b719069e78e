package out

import (
	"context"

	"brack/internal/modules/session/domain"
)

type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Exists(ctx context.Context, id string) (bool, error)
	// List returns the user's sessions newest first; limit <= 0 means all.
	List(ctx context.Context, userID string, limit int) ([]domain.Session, error)
}

type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.ActiveSession) error
	LoadActive(ctx context.Context) (domain.ActiveSession, error)
	ClearActive(ctx context.Context) error
}

type NoteSource interface {
	ListNotes(ctx context.Context, dir string) ([]domain.Note, error)
}
