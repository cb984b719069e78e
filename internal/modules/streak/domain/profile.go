package domain

import (
	"slices"
	"time"
)

const (
	ManagedReportStart = "<!-- brack:streak:start -->"
	ManagedReportEnd   = "<!-- brack:streak:end -->"
	SchemaVersion      = 1
)

// Profile is the persisted streak record of a user.
type Profile struct {
	UserID             string
	CurrentStreak      int
	LongestStreak      int
	LastReadingDate    string
	StreakFreezeUsedAt *time.Time
	// FrozenAt lists every freeze ever used, oldest first. StreakFreezeUsedAt
	// is the latest of them.
	FrozenAt  []time.Time
	UpdatedAt time.Time
}

// StreakFields returns the calculator input for p; a nil profile stays nil.
func (p *Profile) StreakFields() *ProfileStreakFields {
	if p == nil {
		return nil
	}
	return &ProfileStreakFields{LongestStreak: p.LongestStreak, StreakFreezeUsedAt: p.StreakFreezeUsedAt}
}

// FreezeTimes returns every recorded freeze, including StreakFreezeUsedAt
// when it predates the FrozenAt list.
func (p *Profile) FreezeTimes() []time.Time {
	if p == nil {
		return nil
	}
	out := make([]time.Time, 0, len(p.FrozenAt)+1)
	out = append(out, p.FrozenAt...)
	if p.StreakFreezeUsedAt != nil && !slices.ContainsFunc(out, p.StreakFreezeUsedAt.Equal) {
		out = append(out, *p.StreakFreezeUsedAt)
	}
	slices.SortFunc(out, time.Time.Compare)
	return out
}

// NeedsWriteBack reports whether computed differs from what p has stored.
func (p *Profile) NeedsWriteBack(computed StreakData) bool {
	if p == nil {
		return true
	}
	return computed.CurrentStreak != p.CurrentStreak || computed.LongestStreak != p.LongestStreak
}

// Report is the rendered streak summary exported to a markdown note.
type Report struct {
	UserID      string
	GeneratedAt time.Time
	Streak      StreakData
	Milestones  []string
	Calendar    []DayActivity
}
