package scheduling

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookline/utils"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// tzOffsetMinutes maps supported time zone identifiers to fixed UTC offsets
// in minutes. This deliberately ignores daylight saving; a proper tz database
// lookup is the planned replacement.
var tzOffsetMinutes = map[string]int{
	"UTC":                 0,
	"America/New_York":    -300,
	"America/Chicago":     -360,
	"America/Denver":      -420,
	"America/Los_Angeles": -480,
	"America/Phoenix":     -420,
	"Europe/London":       0,
	"Europe/Berlin":       60,
	"Europe/Paris":        60,
	"Asia/Kolkata":        330,
	"Asia/Tokyo":          540,
	"Australia/Sydney":    600,
}

var dateLayouts = []string{
	dateLayout,
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2 January 2006",
}

// ParseRelativeDate resolves natural-language date text to an ISO date.
// "today" and "tomorrow" are matched as case-insensitive substrings; anything
// else goes through generic date parsing. Unparseable input falls back to
// tomorrow so the conversation can keep moving.
func ParseRelativeDate(text string) string {
	now := time.Now()
	lower := strings.ToLower(strings.TrimSpace(text))

	if strings.Contains(lower, "today") {
		return now.Format(dateLayout)
	}
	if strings.Contains(lower, "tomorrow") {
		return now.AddDate(0, 0, 1).Format(dateLayout)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(text)); err == nil {
			return t.Format(dateLayout)
		}
	}

	return now.AddDate(0, 0, 1).Format(dateLayout)
}

var clockPattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

// To24Hour normalizes free-form time text ("14:00", "2:00 PM", "2 pm",
// "3:30 p.m.") to 24-hour "HH:MM". 12 AM maps to 00 and 12 PM stays 12.
// Unparseable input falls back to "09:00" rather than failing the turn.
func To24Hour(timeText string) string {
	s := strings.ToLower(strings.TrimSpace(timeText))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.TrimSpace(s)

	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return "09:00"
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 0 || hour > 23 {
		return "09:00"
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute < 0 || minute > 59 {
			return "09:00"
		}
	}

	switch m[3] {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 {
		return "09:00"
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// LocalToUTC converts a local date plus 24-hour "HH:MM" clock time in the
// given zone to an absolute UTC interval of durationMinutes. Unknown zones
// fall back to a zero offset with a logged warning.
func LocalToUTC(date, clock, timezoneID string, durationMinutes int) (time.Time, time.Time) {
	offset, ok := tzOffsetMinutes[timezoneID]
	if !ok {
		utils.GetLogger().Warn("unknown timezone, assuming UTC",
			zap.String("timezone", timezoneID))
		offset = 0
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		day, _ = time.Parse(dateLayout, ParseRelativeDate(date))
	}

	hour, minute := 9, 0
	if parts := strings.SplitN(To24Hour(clock), ":", 2); len(parts) == 2 {
		hour, _ = strconv.Atoi(parts[0])
		minute, _ = strconv.Atoi(parts[1])
	}

	local := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
	start := local.Add(-time.Duration(offset) * time.Minute)
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return start, end
}

// FormatLocalClock renders a UTC instant as a local "3:04 PM" clock string in
// the given zone, using the same fixed offsets as LocalToUTC.
func FormatLocalClock(t time.Time, timezoneID string) string {
	offset, ok := tzOffsetMinutes[timezoneID]
	if !ok {
		offset = 0
	}
	return t.UTC().Add(time.Duration(offset) * time.Minute).Format("3:04 PM")
}

// Overlaps reports whether two half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
