package interval

import (
	"testing"
	"time"
)

func TestNewRejectsDegenerate(t *testing.T) {
	cases := []struct {
		name       string
		start, end int
	}{
		{"equal bounds", 480, 480},
		{"inverted", 540, 480},
		{"negative start", -10, 60},
		{"past midnight", 1400, 1500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.start, tc.end); err == nil {
				t.Errorf("New(%d, %d) accepted a degenerate interval", tc.start, tc.end)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	mk := func(start, end int) Interval {
		iv, err := New(start, end)
		if err != nil {
			t.Fatalf("New(%d, %d): %v", start, end, err)
		}
		return iv
	}

	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", mk(480, 540), mk(480, 540), true},
		{"partial overlap", mk(480, 540), mk(510, 570), true},
		{"contained", mk(480, 600), mk(510, 540), true},
		{"back to back", mk(480, 540), mk(540, 600), false},
		{"back to back reversed", mk(540, 600), mk(480, 540), false},
		{"disjoint", mk(480, 540), mk(600, 660), false},
		{"one minute shared", mk(480, 541), mk(540, 600), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// Overlap is symmetric.
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	iv, _ := New(480, 525)
	if iv.Duration() != 45*time.Minute {
		t.Errorf("Duration() = %v, want 45m", iv.Duration())
	}
	if iv.Minutes() != 45 {
		t.Errorf("Minutes() = %d, want 45", iv.Minutes())
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"08:60", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q) accepted invalid input", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, min := range []int{0, 45, 480, 1439} {
		got, err := ParseClock(FormatMinutes(min))
		if err != nil {
			t.Fatalf("round trip %d: %v", min, err)
		}
		if got != min {
			t.Errorf("round trip %d = %d", min, got)
		}
	}
}

func TestWeekdayValid(t *testing.T) {
	if !Monday.Valid() || !Sunday.Valid() || !Saturday.Valid() {
		t.Error("expected weekdays 0-6 to be valid")
	}
	if Weekday(7).Valid() || Weekday(-1).Valid() {
		t.Error("expected out-of-range weekdays to be invalid")
	}
}
