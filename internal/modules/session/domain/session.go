package domain

import (
	"fmt"
	"strings"
	"time"
)

type Origin string

const (
	OriginLog    Origin = "log"
	OriginTimer  Origin = "timer"
	OriginImport Origin = "import"
)

// ActiveSession is a running reading timer, persisted between CLI calls.
type ActiveSession struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	StartedAt time.Time `json:"started_at"`
}

// Session is one logged reading interval. DurationMin is nil when the
// reader logged presence without a duration.
type Session struct {
	ID          string
	UserID      string
	BookID      string
	StartedAt   *time.Time
	EndedAt     *time.Time
	DurationMin *int
	Origin      Origin
	CreatedAt   time.Time
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(s.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if s.DurationMin != nil && *s.DurationMin < 0 {
		return fmt.Errorf("duration must be non-negative")
	}
	if s.CreatedAt.IsZero() {
		return fmt.Errorf("created at is required")
	}
	if s.StartedAt != nil && s.EndedAt != nil && s.EndedAt.Before(*s.StartedAt) {
		return fmt.Errorf("session ends before it starts")
	}
	return nil
}

// Note is a session read from a markdown note's frontmatter.
type Note struct {
	Path string
	// Key is the note path relative to the import dir, slash-separated.
	Key         string
	ID          string
	BookID      string
	StartedAt   time.Time
	EndedAt     *time.Time
	DurationMin *int
}
