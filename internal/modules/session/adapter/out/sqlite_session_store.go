package out

import (
	"context"
	"database/sql"
	"fmt"

	"brack/internal/modules/session/domain"
	sessionout "brack/internal/modules/session/port/out"
	"brack/internal/platform/database"
	"brack/internal/platform/tx"
)

type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(ctx context.Context, db *sql.DB) (sessionout.SessionStore, error) {
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reading_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  book_id TEXT,
  start_time TEXT,
  end_time TEXT,
  duration INTEGER,
  origin TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS reading_sessions_user_created
  ON reading_sessions (user_id, created_at DESC);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create reading_sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Save(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO reading_sessions (id, user_id, book_id, start_time, end_time, duration, origin, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  user_id=excluded.user_id,
  book_id=excluded.book_id,
  start_time=excluded.start_time,
  end_time=excluded.end_time,
  duration=excluded.duration,
  origin=excluded.origin,
  created_at=excluded.created_at;
`
	_, err := tx.SQLFrom(ctx, s.db).ExecContext(ctx, stmt,
		session.ID,
		session.UserID,
		nullString(session.BookID),
		database.FormatNullableTime(session.StartedAt),
		database.FormatNullableTime(session.EndedAt),
		nullInt(session.DurationMin),
		string(session.Origin),
		database.FormatTime(session.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert reading session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := tx.SQLFrom(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM reading_sessions WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check reading session: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteSessionStore) List(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	query := `
SELECT id, user_id, book_id, start_time, end_time, duration, origin, created_at
FROM reading_sessions
WHERE user_id = ?
ORDER BY created_at DESC, id`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := tx.SQLFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reading sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		var (
			session            domain.Session
			bookID             sql.NullString
			startRaw, endRaw   sql.NullString
			duration           sql.NullInt64
			origin, createdRaw string
		)
		if err := rows.Scan(&session.ID, &session.UserID, &bookID, &startRaw, &endRaw, &duration, &origin, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan reading session: %w", err)
		}
		session.BookID = bookID.String
		session.Origin = domain.Origin(origin)
		if duration.Valid {
			d := int(duration.Int64)
			session.DurationMin = &d
		}
		if session.StartedAt, err = database.ParseNullableTime(startRaw); err != nil {
			return nil, fmt.Errorf("parse start_time of %s: %w", session.ID, err)
		}
		if session.EndedAt, err = database.ParseNullableTime(endRaw); err != nil {
			return nil, fmt.Errorf("parse end_time of %s: %w", session.ID, err)
		}
		if session.CreatedAt, err = database.ParseTime(createdRaw); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", session.ID, err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reading sessions: %w", err)
	}
	return out, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
