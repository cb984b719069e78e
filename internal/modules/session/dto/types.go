package dto

import "time"

type LogInput struct {
	UserID      string
	BookID      string
	DurationMin *int
	At          time.Time
}

type StartInput struct {
	UserID string
	BookID string
}

type StartOutput struct {
	SessionID string
	BookID    string
	StartedAt time.Time
}

type EndInput struct {
	SessionID string
}

type ActiveSessionOutput struct {
	SessionID string
	UserID    string
	BookID    string
	StartedAt time.Time
}

type ListInput struct {
	UserID string
	Limit  int
}

type SessionOutput struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	BookID      string     `json:"book_id,omitempty"`
	StartedAt   *time.Time `json:"start_time,omitempty"`
	EndedAt     *time.Time `json:"end_time,omitempty"`
	DurationMin *int       `json:"duration"`
	Origin      string     `json:"origin"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ImportInput struct {
	UserID string
	Dir    string
}

type ImportOutput struct {
	Imported int
	Skipped  int
}
