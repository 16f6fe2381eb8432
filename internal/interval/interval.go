package interval

import (
	"fmt"
	"time"
)

// Weekday is the day-of-week used by schedule slots (0 = Sunday .. 6 = Saturday).
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Valid reports whether d is within the 0-6 range.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// Interval is a half-open time range [Start, End) expressed in minutes from
// midnight on a single ordinal day. Start must be strictly less than End;
// callers validate before constructing.
type Interval struct {
	Start int
	End   int
}

// New builds an Interval from minutes-of-day, rejecting degenerate ranges.
func New(start, end int) (Interval, error) {
	if start < 0 || end > 24*60 {
		return Interval{}, fmt.Errorf("interval out of day bounds: [%d, %d)", start, end)
	}
	if start >= end {
		return Interval{}, fmt.Errorf("interval start %d is not before end %d", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether a and b intersect. Half-open semantics: an
// interval ending exactly when another begins does not overlap, so
// back-to-back lessons are permitted.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Duration returns the length of the interval.
func (a Interval) Duration() time.Duration {
	return time.Duration(a.End-a.Start) * time.Minute
}

// Minutes returns the length of the interval in whole minutes.
func (a Interval) Minutes() int {
	return a.End - a.Start
}

// String renders the interval as "HH:MM-HH:MM".
func (a Interval) String() string {
	return FormatMinutes(a.Start) + "-" + FormatMinutes(a.End)
}

// ParseClock converts an "HH:MM" string to minutes from midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatMinutes converts minutes from midnight to "HH:MM".
func FormatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
