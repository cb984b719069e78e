package clock_test

import (
	"testing"
	"time"

	"brack/internal/platform/clock"
)

func TestLoadLocation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		want *time.Location
	}{
		{name: "", want: time.UTC},
		{name: "UTC", want: time.UTC},
		{name: "Local", want: time.Local},
	}
	for _, tc := range cases {
		loc, err := clock.LoadLocation(tc.name)
		if err != nil {
			t.Fatalf("load %q: %v", tc.name, err)
		}
		if loc != tc.want {
			t.Fatalf("load %q: expected %v, got %v", tc.name, tc.want, loc)
		}
	}
	if _, err := clock.LoadLocation("Mars/Olympus_Mons"); err == nil {
		t.Fatalf("unknown zone should fail")
	}
}

func TestForZoneUsesSystemClockForUTC(t *testing.T) {
	t.Parallel()
	clk, err := clock.ForZone("UTC")
	if err != nil {
		t.Fatalf("for zone: %v", err)
	}
	if _, ok := clk.(clock.SystemClock); !ok {
		t.Fatalf("expected system clock, got %T", clk)
	}
	if clk.Now().Location() != time.UTC {
		t.Fatalf("system clock must report UTC")
	}
}

func TestFixedClock(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if got := (clock.FixedClock{At: at}).Now(); !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}
}
