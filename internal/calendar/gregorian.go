package calendar

import (
	"strings"
	"time"

	"LectureIndexer/internal/textnorm"
)

// gregorianLayouts are tried in order; day-first forms win over ISO.
var gregorianLayouts = []string{
	"2.1.2006",
	"2/1/2006",
	"2006-1-2",
}

// ParseGregorian reads the first token of text as a day-first or ISO date.
// Malformed input yields ok == false, never an error.
func ParseGregorian(text string) (time.Time, bool) {
	fields := strings.Fields(textnorm.Digits(text))
	if len(fields) == 0 {
		return time.Time{}, false
	}
	token := strings.TrimRight(fields[0], ",;")
	for _, layout := range gregorianLayouts {
		if parsed, err := time.Parse(layout, token); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// DayOfWeek returns the weekday of a calendar date.
func DayOfWeek(date time.Time) time.Weekday {
	return date.Weekday()
}

// FormatDate renders a date the way output tables store it.
func FormatDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format("2006-01-02")
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
