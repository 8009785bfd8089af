package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRelativeDate(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"today keyword", "today", today},
		{"today in sentence", "sometime Today please", today},
		{"tomorrow keyword", "tomorrow", tomorrow},
		{"tomorrow in sentence", "how about Tomorrow afternoon", tomorrow},
		{"iso date passes through", "2026-09-15", "2026-09-15"},
		{"slash date", "2026/09/15", "2026-09-15"},
		{"us date", "09/15/2026", "2026-09-15"},
		{"long form", "September 15, 2026", "2026-09-15"},
		{"nonsense falls back to tomorrow", "whenever works", tomorrow},
		{"empty falls back to tomorrow", "", tomorrow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRelativeDate(tt.in))
		})
	}
}

func TestParseRelativeDateIdempotent(t *testing.T) {
	// Output must be valid input producing the same output.
	out := ParseRelativeDate("tomorrow")
	assert.Equal(t, out, ParseRelativeDate(out))
}

func TestTo24Hour(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already 24h", "14:00", "14:00"},
		{"pm with minutes", "2:30 PM", "14:30"},
		{"pm no minutes", "2 pm", "14:00"},
		{"am with dots", "9:15 a.m.", "09:15"},
		{"midnight", "12 AM", "00:00"},
		{"noon", "12 PM", "12:00"},
		{"bare hour", "7", "07:00"},
		{"nonsense falls back", "whenever", "09:00"},
		{"empty falls back", "", "09:00"},
		{"out of range falls back", "25:00", "09:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, To24Hour(tt.in))
		})
	}
}

func TestLocalToUTC(t *testing.T) {
	start, end := LocalToUTC("2026-09-15", "15:00", "America/New_York", 30)
	assert.Equal(t, time.Date(2026, 9, 15, 20, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 30*time.Minute, end.Sub(start))
}

func TestLocalToUTCHalfHourZone(t *testing.T) {
	start, _ := LocalToUTC("2026-09-15", "15:00", "Asia/Kolkata", 30)
	assert.Equal(t, time.Date(2026, 9, 15, 9, 30, 0, 0, time.UTC), start)
}

func TestLocalToUTCUnknownZone(t *testing.T) {
	start, _ := LocalToUTC("2026-09-15", "15:00", "Mars/Olympus", 30)
	assert.Equal(t, time.Date(2026, 9, 15, 15, 0, 0, 0, time.UTC), start)
}

func TestFormatLocalClock(t *testing.T) {
	utc := time.Date(2026, 9, 15, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "3:00 PM", FormatLocalClock(utc, "America/New_York"))
	assert.Equal(t, "8:00 PM", FormatLocalClock(utc, "UTC"))
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 9, 15, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"partial overlap", at(10, 15), at(10, 45), at(10, 0), at(10, 30), true},
		{"contained", at(10, 10), at(10, 20), at(10, 0), at(10, 30), true},
		{"adjacent intervals do not overlap", at(10, 30), at(11, 0), at(10, 0), at(10, 30), false},
		{"disjoint", at(12, 0), at(12, 30), at(10, 0), at(10, 30), false},
		{"identical", at(10, 0), at(10, 30), at(10, 0), at(10, 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}
