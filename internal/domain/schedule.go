package domain

import (
	"strings"
	"time"
)

// ScheduleEntry is one recurring series slot from the weekly schedule.
type ScheduleEntry struct {
	Name     string
	Aliases  []string
	Keywords []string
	Author   string
	Category string
	Location Location
	Days     []time.Weekday
	// Adhoc marks identities built from table rows that have no schedule slot.
	Adhoc bool
}

// RecursOn reports whether the entry is scheduled on the weekday.
func (e ScheduleEntry) RecursOn(day time.Weekday) bool {
	for _, d := range e.Days {
		if d == day {
			return true
		}
	}
	return false
}

// DayNames renders the weekday set in schedule order.
func (e ScheduleEntry) DayNames() string {
	return JoinWeekdays(e.Days)
}

// JoinWeekdays renders weekdays as a comma separated list.
func JoinWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return "Unknown"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

// ParseWeekday accepts English weekday names in any case.
func ParseWeekday(value string) (time.Weekday, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == value {
			return d, true
		}
	}
	return time.Sunday, false
}
