package out

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brack/internal/modules/streak/domain"
	streakout "brack/internal/modules/streak/port/out"
	"brack/internal/platform/tx"
)

// PostgresStreakStore reads and writes the hosted profiles and
// reading_streak_history tables.
type PostgresStreakStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStreakStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStreakStore, error) {
	store := &PostgresStreakStore{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

var (
	_ streakout.ProfileStore = (*PostgresStreakStore)(nil)
	_ streakout.HistoryStore = (*PostgresStreakStore)(nil)
)

func (s *PostgresStreakStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
  user_id TEXT PRIMARY KEY,
  current_streak INTEGER NOT NULL DEFAULT 0,
  longest_streak INTEGER NOT NULL DEFAULT 0,
  last_reading_date DATE,
  streak_freeze_used_at TIMESTAMPTZ,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS reading_streak_history (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  streak_count INTEGER NOT NULL,
  achieved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS reading_streak_history_user
  ON reading_streak_history (user_id, streak_count DESC);
CREATE TABLE IF NOT EXISTS streak_freezes (
  user_id TEXT NOT NULL,
  used_at TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (user_id, used_at)
);
`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating streak tables: %w", err)
	}
	return nil
}

func (s *PostgresStreakStore) Load(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, current_streak, longest_streak,
			COALESCE(to_char(last_reading_date, 'YYYY-MM-DD'), ''),
			streak_freeze_used_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	var (
		profile  domain.Profile
		freezeAt *time.Time
	)
	err := tx.PgxFrom(ctx, s.pool).QueryRow(ctx, query, userID).Scan(
		&profile.UserID, &profile.CurrentStreak, &profile.LongestStreak,
		&profile.LastReadingDate, &freezeAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	profile.StreakFreezeUsedAt = freezeAt

	rows, err := tx.PgxFrom(ctx, s.pool).Query(ctx,
		`SELECT used_at FROM streak_freezes WHERE user_id = $1 ORDER BY used_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying streak freezes: %w", err)
	}
	profile.FrozenAt, err = pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("scanning streak freezes: %w", err)
	}
	return &profile, nil
}

func (s *PostgresStreakStore) Save(ctx context.Context, profile domain.Profile) error {
	query := `
		INSERT INTO profiles (user_id, current_streak, longest_streak, last_reading_date, streak_freeze_used_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::date, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_reading_date = EXCLUDED.last_reading_date,
			streak_freeze_used_at = EXCLUDED.streak_freeze_used_at,
			updated_at = EXCLUDED.updated_at
	`
	q := tx.PgxFrom(ctx, s.pool)
	_, err := q.Exec(ctx, query,
		profile.UserID,
		profile.CurrentStreak,
		profile.LongestStreak,
		profile.LastReadingDate,
		profile.StreakFreezeUsedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	for _, at := range profile.FreezeTimes() {
		if _, err := q.Exec(ctx,
			`INSERT INTO streak_freezes (user_id, used_at) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			profile.UserID, at,
		); err != nil {
			return fmt.Errorf("inserting streak freeze: %w", err)
		}
	}
	return nil
}

func (s *PostgresStreakStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := tx.PgxFrom(ctx, s.pool).Exec(ctx,
		`INSERT INTO reading_streak_history (id, user_id, streak_count, achieved_at) VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.UserID, entry.StreakCount, entry.AchievedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting streak history: %w", err)
	}
	return nil
}

func (s *PostgresStreakStore) List(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	rows, err := tx.PgxFrom(ctx, s.pool).Query(ctx, `
		SELECT id, user_id, streak_count, achieved_at
		FROM reading_streak_history
		WHERE user_id = $1
		ORDER BY streak_count DESC, achieved_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying streak history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.StreakCount, &entry.AchievedAt); err != nil {
			return nil, fmt.Errorf("scanning streak history: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating streak history: %w", err)
	}
	return out, nil
}
