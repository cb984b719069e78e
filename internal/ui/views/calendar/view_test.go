package calendar

import (
	"strings"
	"testing"

	streakdto "brack/internal/modules/streak/dto"
)

func TestHeatmapHasSevenRows(t *testing.T) {
	t.Parallel()
	days := []streakdto.DayOutput{
		{Date: "2026-03-11"},
		{Date: "2026-03-12", HasActivity: true, SessionCount: 1, TotalMinutes: 10},
		{Date: "2026-03-13", HasActivity: true, SessionCount: 2, TotalMinutes: 60},
	}
	out := Heatmap(days)
	if rows := strings.Count(out, "\n"); rows != 7 {
		t.Fatalf("expected 7 rows, got %d", rows)
	}
	if cells := strings.Count(out, "■"); cells != 3 {
		t.Fatalf("expected 3 cells, got %d", cells)
	}
}

func TestLevelBuckets(t *testing.T) {
	t.Parallel()
	cases := []struct {
		day  streakdto.DayOutput
		want int
	}{
		{streakdto.DayOutput{}, 0},
		{streakdto.DayOutput{HasActivity: true}, 1},
		{streakdto.DayOutput{HasActivity: true, TotalMinutes: 30}, 2},
		{streakdto.DayOutput{HasActivity: true, TotalMinutes: 90}, 3},
	}
	for _, tc := range cases {
		if got := level(tc.day); got != tc.want {
			t.Fatalf("level(%+v) = %d, want %d", tc.day, got, tc.want)
		}
	}
}

func TestHeatmapEmpty(t *testing.T) {
	t.Parallel()
	if out := Heatmap(nil); !strings.Contains(out, "no days") {
		t.Fatalf("unexpected output %q", out)
	}
}
