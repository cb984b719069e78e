package clock

import (
	"fmt"
	"strings"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ZoneClock reports the system time in a fixed location. Day boundaries for
// streaks follow the location of the returned time.
type ZoneClock struct {
	Location *time.Location
}

func (c ZoneClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// LoadLocation resolves the configured zone policy: "UTC", "Local" or an IANA name.
func LoadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "UTC", "utc":
		return time.UTC, nil
	case "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// ForZone returns the clock matching a configured zone policy.
func ForZone(name string) (Clock, error) {
	loc, err := LoadLocation(name)
	if err != nil {
		return nil, err
	}
	if loc == time.UTC {
		return SystemClock{}, nil
	}
	return ZoneClock{Location: loc}, nil
}
