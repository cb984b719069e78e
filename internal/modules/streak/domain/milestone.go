package domain

import (
	"sort"
	"time"
)

// MilestoneDisplayDays is how long a reached milestone stays in the result set.
const MilestoneDisplayDays = 7

type Milestone struct {
	Threshold int
	Label     string
}

var streakMilestones = []Milestone{
	{Threshold: 3, Label: "3-day streak!"},
	{Threshold: 7, Label: "Week streak!"},
	{Threshold: 14, Label: "2-week streak!"},
	{Threshold: 30, Label: "Month streak!"},
	{Threshold: 60, Label: "2-month streak!"},
	{Threshold: 100, Label: "100-day streak!"},
	{Threshold: 365, Label: "Year streak!"},
}

// BadgeThresholds are the streak lengths awarded a permanent badge once
// recorded in the streak history.
var BadgeThresholds = []int{7, 30, 50, 100, 200, 365}

// StreakMilestones returns the labels whose display window contains streak.
func StreakMilestones(streak int) []string {
	out := []string{}
	for _, m := range streakMilestones {
		if streak >= m.Threshold && streak < m.Threshold+MilestoneDisplayDays {
			out = append(out, m.Label)
		}
	}
	return out
}

// Milestones returns a copy of the milestone table, lowest threshold first.
func Milestones() []Milestone {
	return append([]Milestone(nil), streakMilestones...)
}

type HistoryEntry struct {
	ID          string
	UserID      string
	StreakCount int
	AchievedAt  time.Time
}

type MilestoneBadge struct {
	Threshold  int
	Achieved   bool
	AchievedAt *time.Time
}

// SortHistory orders entries by streak count, then achievement time, both descending.
func SortHistory(history []HistoryEntry) []HistoryEntry {
	out := append([]HistoryEntry(nil), history...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StreakCount != out[j].StreakCount {
			return out[i].StreakCount > out[j].StreakCount
		}
		return out[i].AchievedAt.After(out[j].AchievedAt)
	})
	return out
}

func MilestoneBadges(history []HistoryEntry) []MilestoneBadge {
	sorted := SortHistory(history)
	badges := make([]MilestoneBadge, 0, len(BadgeThresholds))
	for _, threshold := range BadgeThresholds {
		badge := MilestoneBadge{Threshold: threshold}
		for _, entry := range sorted {
			if entry.StreakCount >= threshold {
				at := entry.AchievedAt
				badge.Achieved = true
				badge.AchievedAt = &at
				break
			}
		}
		badges = append(badges, badge)
	}
	return badges
}

func LongestHistoryEntry(history []HistoryEntry) (HistoryEntry, bool) {
	if len(history) == 0 {
		return HistoryEntry{}, false
	}
	best := history[0]
	for _, entry := range history[1:] {
		if entry.StreakCount > best.StreakCount {
			best = entry
		}
	}
	return best, true
}
