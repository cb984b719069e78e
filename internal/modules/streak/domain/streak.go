package domain

import (
	"time"
)

const (
	// FreezeCooldown is how long a used streak freeze stays unavailable.
	FreezeCooldown = 7 * 24 * time.Hour
	dayLayout      = "2006-01-02"
)

// ReadingSession is the read-only view of a logged session the calculators need.
type ReadingSession struct {
	ID        string
	UserID    string
	BookID    string
	CreatedAt time.Time
	Duration  *int
}

// ProfileStreakFields is the stored streak state of a user. A nil pointer
// means no profile: no stored floor and no freeze history.
type ProfileStreakFields struct {
	LongestStreak      int
	StreakFreezeUsedAt *time.Time
}

type StreakData struct {
	CurrentStreak     int
	LongestStreak     int
	LastReadingDate   string
	CanUseFreezeToday bool
	FreezeAvailable   bool
}

// CalculateStreak derives streak state from sessions in any order. Every date
// is taken in the location of now.
func CalculateStreak(sessions []ReadingSession, profile *ProfileStreakFields, now time.Time) StreakData {
	stored := 0
	if profile != nil && profile.LongestStreak > 0 {
		stored = profile.LongestStreak
	}
	if len(sessions) == 0 {
		return StreakData{LongestStreak: stored, FreezeAvailable: true}
	}

	days := groupByDay(sessions, now.Location())
	lastReading := days.dates[len(days.dates)-1]

	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	activeToday := days.has(today)
	activeYesterday := days.has(yesterday)

	if !activeToday && !activeYesterday {
		return StreakData{
			LongestStreak:   stored,
			LastReadingDate: lastReading,
			FreezeAvailable: CanUseFreeze(profile, now),
		}
	}

	anchor := today
	if !activeToday {
		anchor = yesterday
	}
	current := 1
	for day := anchor.AddDate(0, 0, -1); days.has(day); day = day.AddDate(0, 0, -1) {
		current++
	}

	return StreakData{
		CurrentStreak:     current,
		LongestStreak:     max(longestRun(days.dates), current, stored),
		LastReadingDate:   lastReading,
		CanUseFreezeToday: !activeToday && activeYesterday,
		FreezeAvailable:   CanUseFreeze(profile, now),
	}
}

// CanUseFreeze reports whether the weekly streak freeze is available at now.
// A freeze used exactly FreezeCooldown ago is still unavailable.
func CanUseFreeze(profile *ProfileStreakFields, now time.Time) bool {
	if profile == nil || profile.StreakFreezeUsedAt == nil {
		return true
	}
	return profile.StreakFreezeUsedAt.Before(now.Add(-FreezeCooldown))
}

// DayKey formats t as the calendar date it falls on in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// longestRun returns the longest run of consecutive days in sorted keys.
func longestRun(sorted []string) int {
	best, run := 0, 0
	var prev time.Time
	for i, key := range sorted {
		day, err := time.Parse(dayLayout, key)
		if err != nil {
			continue
		}
		if i > 0 && prev.AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
		prev = day
	}
	return best
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
