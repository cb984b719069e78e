package out

import (
	"context"

	"brack/internal/modules/streak/domain"
)

type SessionSource interface {
	ListSessions(ctx context.Context, userID string) ([]domain.ReadingSession, error)
}

type ProfileStore interface {
	// Load returns nil and no error when the user has no profile yet.
	Load(ctx context.Context, userID string) (*domain.Profile, error)
	Save(ctx context.Context, profile domain.Profile) error
}

type HistoryStore interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	List(ctx context.Context, userID string) ([]domain.HistoryEntry, error)
}

type ReportWriter interface {
	Write(ctx context.Context, dir string, report domain.Report) (string, error)
}
