package domain

import "time"

// SeriesKey identifies a recurrence unit for completeness accounting.
type SeriesKey struct {
	Name     string
	Location Location
	// Weekday is only meaningful when HasWeekday is set (per-weekday grouping).
	Weekday    time.Weekday
	HasWeekday bool
}

// Gap is a stretch between two adjacent dated lessons longer than two weeks.
type Gap struct {
	From             time.Time
	To               time.Time
	Days             int
	Weeks            int
	EstimatedMissing int
}

// SeriesGroup collects the lessons of one recurrence unit in date order.
type SeriesGroup struct {
	Key      SeriesKey
	Entry    *ScheduleEntry
	Author   string
	Category string
	Lessons  []Record

	Weekdays       []time.Weekday
	ClassesPerWeek int

	// Analyzed is false when the group has too few dated lessons for gap and completeness math.
	Analyzed     bool
	Dated        int
	FirstDate    time.Time
	LastDate     time.Time
	WeeksSpan    int
	Expected     int
	Missing      int
	Completeness float64
	Gaps         []Gap
}

// Count returns the number of lessons in the group.
func (g SeriesGroup) Count() int {
	return len(g.Lessons)
}
