package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brack/internal/modules/streak/domain"
	streakout "brack/internal/modules/streak/port/out"
	"brack/internal/platform/database"
	"brack/internal/platform/tx"
)

// SQLiteStreakStore keeps profiles and streak history in the embedded database.
type SQLiteStreakStore struct {
	db *sql.DB
}

func NewSQLiteStreakStore(ctx context.Context, db *sql.DB) (*SQLiteStreakStore, error) {
	store := &SQLiteStreakStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

var (
	_ streakout.ProfileStore = (*SQLiteStreakStore)(nil)
	_ streakout.HistoryStore = (*SQLiteStreakStore)(nil)
)

func (s *SQLiteStreakStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
  user_id TEXT PRIMARY KEY,
  current_streak INTEGER NOT NULL DEFAULT 0,
  longest_streak INTEGER NOT NULL DEFAULT 0,
  last_reading_date TEXT,
  streak_freeze_used_at TEXT,
  updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS reading_streak_history (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  streak_count INTEGER NOT NULL,
  achieved_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS reading_streak_history_user
  ON reading_streak_history (user_id, streak_count DESC);
CREATE TABLE IF NOT EXISTS streak_freezes (
  user_id TEXT NOT NULL,
  used_at TEXT NOT NULL,
  PRIMARY KEY (user_id, used_at)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create streak tables: %w", err)
	}
	return nil
}

func (s *SQLiteStreakStore) Load(ctx context.Context, userID string) (*domain.Profile, error) {
	const query = `
SELECT user_id, current_streak, longest_streak, last_reading_date, streak_freeze_used_at, updated_at
FROM profiles WHERE user_id = ?`
	var (
		profile     domain.Profile
		lastReading sql.NullString
		freezeRaw   sql.NullString
		updatedRaw  string
	)
	err := tx.SQLFrom(ctx, s.db).QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.CurrentStreak, &profile.LongestStreak, &lastReading, &freezeRaw, &updatedRaw,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	profile.LastReadingDate = lastReading.String
	if profile.StreakFreezeUsedAt, err = database.ParseNullableTime(freezeRaw); err != nil {
		return nil, fmt.Errorf("parse streak_freeze_used_at: %w", err)
	}
	if profile.UpdatedAt, err = database.ParseTime(updatedRaw); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	if profile.FrozenAt, err = s.freezes(ctx, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *SQLiteStreakStore) freezes(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := tx.SQLFrom(ctx, s.db).QueryContext(ctx,
		`SELECT used_at FROM streak_freezes WHERE user_id = ? ORDER BY used_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query streak freezes: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan streak freeze: %w", err)
		}
		at, err := database.ParseTime(raw)
		if err != nil {
			return nil, fmt.Errorf("parse used_at: %w", err)
		}
		out = append(out, at)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate streak freezes: %w", err)
	}
	return out, nil
}

func (s *SQLiteStreakStore) Save(ctx context.Context, profile domain.Profile) error {
	const stmt = `
INSERT INTO profiles (user_id, current_streak, longest_streak, last_reading_date, streak_freeze_used_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
  current_streak=excluded.current_streak,
  longest_streak=excluded.longest_streak,
  last_reading_date=excluded.last_reading_date,
  streak_freeze_used_at=excluded.streak_freeze_used_at,
  updated_at=excluded.updated_at;
`
	q := tx.SQLFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, stmt,
		profile.UserID,
		profile.CurrentStreak,
		profile.LongestStreak,
		sql.NullString{String: profile.LastReadingDate, Valid: profile.LastReadingDate != ""},
		database.FormatNullableTime(profile.StreakFreezeUsedAt),
		database.FormatTime(profile.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	// Freezes are append-only; rows already stored are left alone.
	for _, at := range profile.FreezeTimes() {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO streak_freezes (user_id, used_at) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			profile.UserID, database.FormatTime(at),
		); err != nil {
			return fmt.Errorf("insert streak freeze: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStreakStore) Append(ctx context.Context, entry domain.HistoryEntry) error {
	_, err := tx.SQLFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO reading_streak_history (id, user_id, streak_count, achieved_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.StreakCount, database.FormatTime(entry.AchievedAt),
	)
	if err != nil {
		return fmt.Errorf("insert streak history: %w", err)
	}
	return nil
}

func (s *SQLiteStreakStore) List(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	rows, err := tx.SQLFrom(ctx, s.db).QueryContext(ctx, `
SELECT id, user_id, streak_count, achieved_at
FROM reading_streak_history
WHERE user_id = ?
ORDER BY streak_count DESC, achieved_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query streak history: %w", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var (
			entry domain.HistoryEntry
			raw   string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.StreakCount, &raw); err != nil {
			return nil, fmt.Errorf("scan streak history: %w", err)
		}
		if entry.AchievedAt, err = database.ParseTime(raw); err != nil {
			return nil, fmt.Errorf("parse achieved_at: %w", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate streak history: %w", err)
	}
	return out, nil
}
