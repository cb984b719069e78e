package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"brack/internal/modules/streak/domain"
	streakout "brack/internal/modules/streak/port/out"
	"brack/internal/platform/clock"
	apperrors "brack/internal/platform/errors"
	"brack/internal/platform/id"
	"brack/internal/platform/tx"
)

const freezeMarkerID = "streak-freeze"

type StreakService struct {
	clock    clock.Clock
	idGen    id.Generator
	tx       tx.Manager
	profiles streakout.ProfileStore
	history  streakout.HistoryStore
	logger   *zap.Logger
}

func NewStreakService(clock clock.Clock, idGen id.Generator, txm tx.Manager, profiles streakout.ProfileStore, history streakout.HistoryStore, logger *zap.Logger) *StreakService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreakService{clock: clock, idGen: idGen, tx: txm, profiles: profiles, history: history, logger: logger}
}

func (s *StreakService) Now() time.Time {
	return s.clock.Now()
}

// Compute evaluates the streak at now. Every day a freeze was used counts as
// a reading day.
func (s *StreakService) Compute(sessions []domain.ReadingSession, profile *domain.Profile, now time.Time) domain.StreakData {
	return domain.CalculateStreak(withFreezeMarker(sessions, profile), profile.StreakFields(), now)
}

func (s *StreakService) Calendar(sessions []domain.ReadingSession, days int, now time.Time) ([]domain.DayActivity, error) {
	return domain.BuildActivityCalendar(sessions, days, now)
}

// Persist writes computed back to the profile when it changed and records a
// history entry when the current streak beats the stored longest.
func (s *StreakService) Persist(ctx context.Context, userID string, profile *domain.Profile, computed domain.StreakData, now time.Time) (bool, bool, error) {
	if !profile.NeedsWriteBack(computed) {
		return false, false, nil
	}
	previousLongest := 0
	next := domain.Profile{UserID: userID}
	if profile != nil {
		previousLongest = profile.LongestStreak
		next = *profile
	}
	next.CurrentStreak = computed.CurrentStreak
	next.LongestStreak = computed.LongestStreak
	next.LastReadingDate = computed.LastReadingDate
	next.UpdatedAt = now
	newLongest := computed.CurrentStreak > previousLongest

	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.profiles.Save(ctx, next); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		if !newLongest {
			return nil
		}
		entry := domain.HistoryEntry{ID: s.idGen.New(), UserID: userID, StreakCount: computed.CurrentStreak, AchievedAt: now}
		if err := s.history.Append(ctx, entry); err != nil {
			return fmt.Errorf("append streak history: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, false, err
	}

	s.logger.Info("streak persisted",
		zap.String("user_id", userID),
		zap.Int("current_streak", computed.CurrentStreak),
		zap.Int("longest_streak", computed.LongestStreak))
	if newLongest {
		s.logger.Info("streak milestone recorded",
			zap.String("user_id", userID),
			zap.Int("streak_count", computed.CurrentStreak))
	}
	return true, newLongest, nil
}

// Freeze marks the streak freeze as used at now, then persists the streak
// recomputed with the frozen day counted. It fails with ErrFreezeUnavailable
// inside the cooldown.
func (s *StreakService) Freeze(ctx context.Context, userID string, sessions []domain.ReadingSession, profile *domain.Profile, now time.Time) (domain.Profile, domain.StreakData, error) {
	if !domain.CanUseFreeze(profile.StreakFields(), now) {
		return domain.Profile{}, domain.StreakData{}, apperrors.ErrFreezeUnavailable
	}
	next := domain.Profile{UserID: userID}
	if profile != nil {
		next = *profile
	}
	usedAt := now
	next.FrozenAt = append(next.FreezeTimes(), usedAt)
	next.StreakFreezeUsedAt = &usedAt
	next.LastReadingDate = domain.DayKey(now, now.Location())
	next.UpdatedAt = now
	computed := s.Compute(sessions, &next, now)

	err := s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.profiles.Save(ctx, next); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		_, _, err := s.Persist(ctx, userID, &next, computed, now)
		return err
	})
	if err != nil {
		return domain.Profile{}, domain.StreakData{}, err
	}
	s.logger.Info("streak freeze used",
		zap.String("user_id", userID),
		zap.Time("used_at", usedAt))
	return next, computed, nil
}

func (s *StreakService) History(ctx context.Context, userID string) ([]domain.HistoryEntry, error) {
	entries, err := s.history.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.SortHistory(entries), nil
}

func (s *StreakService) LoadProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.Load(ctx, userID)
}

// withFreezeMarker adds one zero-minute session per frozen day. The markers
// only feed the streak walk; the calendar is built from the raw sessions.
func withFreezeMarker(sessions []domain.ReadingSession, profile *domain.Profile) []domain.ReadingSession {
	frozen := profile.FreezeTimes()
	if len(frozen) == 0 {
		return sessions
	}
	zero := 0
	out := make([]domain.ReadingSession, 0, len(sessions)+len(frozen))
	out = append(out, sessions...)
	for _, at := range frozen {
		out = append(out, domain.ReadingSession{
			ID:        freezeMarkerID,
			UserID:    profile.UserID,
			CreatedAt: at,
			Duration:  &zero,
		})
	}
	return out
}
