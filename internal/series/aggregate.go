package series

import (
	"sort"
	"time"

	"LectureIndexer/internal/calendar"
	"LectureIndexer/internal/domain"
)

// MinAnalyzedLessons is the fewest dated lessons that allow recurrence math.
const MinAnalyzedLessons = 2

// Aggregation is the grouped view of a run.
type Aggregation struct {
	Mode       Mode
	Groups     []domain.SeriesGroup
	Unresolved []domain.Record
}

// Aggregator groups resolved records into recurrence units.
type Aggregator struct {
	mode Mode
}

// NewAggregator builds an aggregator for mode; an empty mode means combined.
func NewAggregator(mode Mode) *Aggregator {
	if mode == "" {
		mode = ModeCombined
	}
	return &Aggregator{mode: mode}
}

// Mode reports the grouping policy.
func (a *Aggregator) Mode() Mode {
	return a.mode
}

// Aggregate groups records by series identity and location (and weekday in
// per-weekday mode), orders each group by date and computes its statistics.
// Records without a series identity are returned untouched in Unresolved.
func (a *Aggregator) Aggregate(records []domain.Record) Aggregation {
	out := Aggregation{Mode: a.mode}
	index := map[domain.SeriesKey]int{}

	for _, rec := range records {
		if !rec.Resolved() {
			out.Unresolved = append(out.Unresolved, rec)
			continue
		}
		key := a.keyFor(rec)
		i, ok := index[key]
		if !ok {
			i = len(out.Groups)
			index[key] = i
			out.Groups = append(out.Groups, domain.SeriesGroup{
				Key:      key,
				Entry:    rec.Series,
				Author:   rec.Series.Author,
				Category: rec.Series.Category,
			})
		}
		out.Groups[i].Lessons = append(out.Groups[i].Lessons, rec)
	}

	for i := range out.Groups {
		analyze(&out.Groups[i])
	}

	sort.SliceStable(out.Groups, func(i, j int) bool {
		gi, gj := out.Groups[i], out.Groups[j]
		if gi.Count() != gj.Count() {
			return gi.Count() > gj.Count()
		}
		if gi.Key.Name != gj.Key.Name {
			return gi.Key.Name < gj.Key.Name
		}
		if gi.Key.Location != gj.Key.Location {
			return gi.Key.Location < gj.Key.Location
		}
		return gi.Key.Weekday < gj.Key.Weekday
	})
	return out
}

func (a *Aggregator) keyFor(rec domain.Record) domain.SeriesKey {
	key := domain.SeriesKey{Name: rec.Series.Name, Location: rec.Series.Location}
	if a.mode == ModePerWeekday {
		key.Weekday, key.HasWeekday = rec.Weekday()
	}
	return key
}

func analyze(g *domain.SeriesGroup) {
	sortLessons(g.Lessons)

	seen := map[time.Weekday]bool{}
	for _, rec := range g.Lessons {
		if day, ok := rec.Weekday(); ok {
			g.Dated++
			seen[day] = true
		}
	}
	g.Weekdays = make([]time.Weekday, 0, len(seen))
	for day := range seen {
		g.Weekdays = append(g.Weekdays, day)
	}
	sort.Slice(g.Weekdays, func(i, j int) bool {
		return scheduleOrder(g.Weekdays[i]) < scheduleOrder(g.Weekdays[j])
	})
	g.ClassesPerWeek = len(g.Weekdays)

	if g.Dated < MinAnalyzedLessons {
		return
	}
	g.Analyzed = true
	g.FirstDate = g.Lessons[0].Date
	g.LastDate = g.Lessons[g.Dated-1].Date

	stats := Completeness(g.FirstDate, g.LastDate, g.ClassesPerWeek, g.Dated)
	g.WeeksSpan = stats.WeeksSpan
	g.Expected = stats.Expected
	g.Missing = stats.Missing
	g.Completeness = stats.Ratio
	g.Gaps = DetectGaps(datesOf(g.Lessons[:g.Dated]), g.ClassesPerWeek)
}

// Stats are the completeness figures of one recurrence unit.
type Stats struct {
	WeeksSpan int
	Expected  int
	Missing   int
	Ratio     float64
}

// Completeness computes expected and missing lesson counts for a span.
// The ratio is not capped, so extra lessons show up above 1.
func Completeness(first, last time.Time, classesPerWeek, observed int) Stats {
	if classesPerWeek < 1 {
		classesPerWeek = 1
	}
	s := Stats{WeeksSpan: calendar.DaysBetween(first, last)/7 + 1}
	s.Expected = s.WeeksSpan * classesPerWeek
	if s.Expected > observed {
		s.Missing = s.Expected - observed
	}
	if s.Expected > 0 {
		s.Ratio = float64(observed) / float64(s.Expected)
	}
	return s
}

// sortLessons orders dated lessons ascending followed by undated ones; ties
// keep the lesson number and then input order.
func sortLessons(lessons []domain.Record) {
	sort.SliceStable(lessons, func(i, j int) bool {
		a, b := lessons[i], lessons[j]
		if a.HasDate() != b.HasDate() {
			return a.HasDate()
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Serial.Number != b.Serial.Number {
			return a.Serial.Number < b.Serial.Number
		}
		return a.Index < b.Index
	})
}

func datesOf(records []domain.Record) []time.Time {
	dates := make([]time.Time, len(records))
	for i, rec := range records {
		dates[i] = rec.Date
	}
	return dates
}

// scheduleOrder starts the week on Saturday, as the schedule does.
func scheduleOrder(day time.Weekday) int {
	return (int(day) + 1) % 7
}

// Overall sums observed and expected lessons over the analyzed groups.
func Overall(groups []domain.SeriesGroup) Stats {
	var observed, expected int
	for _, g := range groups {
		if !g.Analyzed {
			continue
		}
		observed += g.Dated
		expected += g.Expected
	}
	s := Stats{Expected: expected}
	if expected > observed {
		s.Missing = expected - observed
	}
	if expected > 0 {
		s.Ratio = float64(observed) / float64(expected)
	}
	return s
}
