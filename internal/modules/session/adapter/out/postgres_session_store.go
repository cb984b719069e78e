package out

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"brack/internal/modules/session/domain"
	sessionout "brack/internal/modules/session/port/out"
	"brack/internal/platform/tx"
)

// PostgresSessionStore keeps sessions in the hosted reading_sessions table.
type PostgresSessionStore struct {
	pool *pgxpool.Pool
}

func NewPostgresSessionStore(ctx context.Context, pool *pgxpool.Pool) (sessionout.SessionStore, error) {
	store := &PostgresSessionStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *PostgresSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reading_sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  book_id TEXT,
  start_time TIMESTAMPTZ,
  end_time TIMESTAMPTZ,
  duration INTEGER,
  origin TEXT NOT NULL DEFAULT 'log',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS reading_sessions_user_created
  ON reading_sessions (user_id, created_at DESC);
`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating reading_sessions table: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) Save(ctx context.Context, session domain.Session) error {
	query := `
		INSERT INTO reading_sessions (id, user_id, book_id, start_time, end_time, duration, origin, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			book_id = EXCLUDED.book_id,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			duration = EXCLUDED.duration,
			origin = EXCLUDED.origin,
			created_at = EXCLUDED.created_at
	`
	_, err := tx.PgxFrom(ctx, s.pool).Exec(ctx, query,
		session.ID,
		session.UserID,
		session.BookID,
		session.StartedAt,
		session.EndedAt,
		session.DurationMin,
		string(session.Origin),
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting reading session: %w", err)
	}
	return nil
}

func (s *PostgresSessionStore) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := tx.PgxFrom(ctx, s.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reading_sessions WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking reading session: %w", err)
	}
	return exists, nil
}

func (s *PostgresSessionStore) List(ctx context.Context, userID string, limit int) ([]domain.Session, error) {
	query := `
		SELECT id, user_id, COALESCE(book_id, ''), start_time, end_time, duration, origin, created_at
		FROM reading_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := tx.PgxFrom(ctx, s.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reading sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		var (
			session   domain.Session
			startedAt *time.Time
			endedAt   *time.Time
			duration  *int32
			origin    string
		)
		if err := rows.Scan(&session.ID, &session.UserID, &session.BookID, &startedAt, &endedAt, &duration, &origin, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reading session: %w", err)
		}
		session.StartedAt = startedAt
		session.EndedAt = endedAt
		session.Origin = domain.Origin(origin)
		if duration != nil {
			d := int(*duration)
			session.DurationMin = &d
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reading sessions: %w", err)
	}
	return out, nil
}
