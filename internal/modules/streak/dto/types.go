package dto

import "time"

type ShowInput struct {
	UserID string
}

type RefreshInput struct {
	UserID string
}

// StreakOutput mirrors domain.StreakData; LastReadingDate is nil when the
// user has never read.
type StreakOutput struct {
	UserID            string   `json:"user_id"`
	CurrentStreak     int      `json:"current_streak"`
	LongestStreak     int      `json:"longest_streak"`
	LastReadingDate   *string  `json:"last_reading_date"`
	CanUseFreezeToday bool     `json:"can_use_freeze_today"`
	FreezeAvailable   bool     `json:"freeze_available"`
	Milestones        []string `json:"milestones"`
}

type RefreshOutput struct {
	Streak          StreakOutput `json:"streak"`
	Persisted       bool         `json:"persisted"`
	NewLongestSaved bool         `json:"new_longest_saved"`
}

type CalendarInput struct {
	UserID string
	Days   int
}

type DayOutput struct {
	Date         string `json:"date"`
	HasActivity  bool   `json:"has_activity"`
	SessionCount int    `json:"session_count"`
	TotalMinutes int    `json:"total_minutes"`
}

type CalendarOutput struct {
	UserID string      `json:"user_id"`
	Days   []DayOutput `json:"days"`
}

type MilestonesInput struct {
	Streak int
}

type MilestoneOutput struct {
	Threshold int    `json:"threshold"`
	Label     string `json:"label"`
}

// MilestonesOutput carries the labels shown for Streak plus the full table.
type MilestonesOutput struct {
	Streak     int               `json:"streak"`
	Milestones []string          `json:"milestones"`
	Table      []MilestoneOutput `json:"table"`
}

type FreezeInput struct {
	UserID string
}

type FreezeOutput struct {
	UsedAt time.Time    `json:"used_at"`
	Streak StreakOutput `json:"streak"`
}

type HistoryInput struct {
	UserID string
}

type HistoryEntryOutput struct {
	ID          string    `json:"id"`
	StreakCount int       `json:"streak_count"`
	AchievedAt  time.Time `json:"achieved_at"`
}

type BadgeOutput struct {
	Threshold  int        `json:"threshold"`
	Achieved   bool       `json:"achieved"`
	AchievedAt *time.Time `json:"achieved_at"`
}

type HistoryOutput struct {
	UserID  string               `json:"user_id"`
	Entries []HistoryEntryOutput `json:"entries"`
	Badges  []BadgeOutput        `json:"badges"`
	Longest *HistoryEntryOutput  `json:"longest"`
}

type ExportInput struct {
	UserID string
	Dir    string
}

type ExportOutput struct {
	Path string `json:"path"`
}
