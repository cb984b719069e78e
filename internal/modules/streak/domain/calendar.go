package domain

import (
	"fmt"
	"sort"
	"time"

	apperrors "brack/internal/platform/errors"
)

// MaxWindowDays bounds the calendar window to roughly ten years.
const MaxWindowDays = 3660

type DayActivity struct {
	Date         string
	HasActivity  bool
	SessionCount int
	TotalMinutes int
}

// BuildActivityCalendar returns exactly windowDays entries, oldest first,
// ending on the day of now. Days without sessions are zero-filled. The window
// must lie in [1, MaxWindowDays].
func BuildActivityCalendar(sessions []ReadingSession, windowDays int, now time.Time) ([]DayActivity, error) {
	if windowDays <= 0 || windowDays > MaxWindowDays {
		return nil, fmt.Errorf("%w: got %d, want 1..%d", apperrors.ErrInvalidWindow, windowDays, MaxWindowDays)
	}
	days := groupByDay(sessions, now.Location())
	today := startOfDay(now)

	out := make([]DayActivity, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		key := today.AddDate(0, 0, -i).Format(dayLayout)
		entry := DayActivity{Date: key}
		if agg, ok := days.byDate[key]; ok {
			entry.HasActivity = true
			entry.SessionCount = agg.sessions
			entry.TotalMinutes = agg.minutes
		}
		out = append(out, entry)
	}
	return out, nil
}

type dayAggregate struct {
	sessions int
	minutes  int
}

// dayIndex groups sessions by calendar date. dates is sorted ascending.
type dayIndex struct {
	byDate map[string]*dayAggregate
	dates  []string
}

func groupByDay(sessions []ReadingSession, loc *time.Location) dayIndex {
	idx := dayIndex{byDate: make(map[string]*dayAggregate, len(sessions))}
	for _, s := range sessions {
		key := DayKey(s.CreatedAt, loc)
		agg, ok := idx.byDate[key]
		if !ok {
			agg = &dayAggregate{}
			idx.byDate[key] = agg
			idx.dates = append(idx.dates, key)
		}
		agg.sessions++
		if s.Duration != nil && *s.Duration > 0 {
			agg.minutes += *s.Duration
		}
	}
	sort.Strings(idx.dates)
	return idx
}

func (d dayIndex) has(day time.Time) bool {
	_, ok := d.byDate[day.Format(dayLayout)]
	return ok
}
