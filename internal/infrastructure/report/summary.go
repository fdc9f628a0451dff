package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/ports"
	"LectureIndexer/internal/series"
)

var (
	typeOrder  = []domain.LectureType{domain.TypeSeries, domain.TypeKhutba, domain.TypeLecture, domain.TypeUnknown}
	stageOrder = []string{"schedule", "keywords", "external", "table", "khutba", "not matched"}
	dayOrder   = []time.Weekday{time.Saturday, time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
)

// SummaryWriter prints the end-of-run summary.
type SummaryWriter struct {
	out io.Writer
}

var _ ports.ReportWriter = (*SummaryWriter)(nil)

// NewSummaryWriter builds a writer printing to out.
func NewSummaryWriter(out io.Writer) *SummaryWriter {
	return &SummaryWriter{out: out}
}

// Write prints totals, matching stages, weekday spread and per-series completeness.
func (s *SummaryWriter) Write(_ context.Context, report domain.Report) error {
	var b strings.Builder
	total := len(report.Records)

	fmt.Fprintf(&b, "Lecture index (run %s, mode %s)\n", report.RunID, report.Mode)
	fmt.Fprintf(&b, "Records: %d\n", total)

	byType := map[domain.LectureType]int{}
	matched, confident := 0, 0
	byDay := map[time.Weekday]int{}
	undated := 0
	for _, rec := range report.Records {
		byType[rec.Type]++
		if rec.Resolved() {
			matched++
		}
		if rec.Doubts.Empty() {
			confident++
		}
		if day, ok := rec.Weekday(); ok {
			byDay[day]++
		} else {
			undated++
		}
	}

	parts := make([]string, 0, len(typeOrder))
	for _, t := range typeOrder {
		parts = append(parts, fmt.Sprintf("%s %d", t, byType[t]))
	}
	fmt.Fprintf(&b, "By type: %s\n", strings.Join(parts, ", "))
	fmt.Fprintf(&b, "Matched to a series: %d (%s), unmatched: %d (%s)\n",
		matched, percentOf(matched, total), total-matched, percentOf(total-matched, total))
	fmt.Fprintf(&b, "By stage: %s\n", stages(report.Passes))
	fmt.Fprintf(&b, "High confidence: %d (%s)\n", confident, percentOf(confident, total))

	parts = parts[:0]
	for _, day := range dayOrder {
		if byDay[day] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", day, byDay[day]))
		}
	}
	parts = append(parts, fmt.Sprintf("no date %d", undated))
	fmt.Fprintf(&b, "By weekday: %s\n", strings.Join(parts, ", "))

	if len(report.Groups) > 0 {
		b.WriteString("Series completeness:\n")
	}
	var multiDay []domain.SeriesGroup
	observed := 0
	for _, g := range report.Groups {
		label := groupLabel(g)
		if !g.Analyzed {
			fmt.Fprintf(&b, "  %s: %d lessons, not enough dated lessons to analyze\n", label, g.Count())
			continue
		}
		fmt.Fprintf(&b, "  %s: %d/%d (%s), %d missing, %d gaps\n",
			label, g.Dated, g.Expected, formatPercent(g.Completeness), g.Missing, len(g.Gaps))
		observed += g.Dated
		if g.ClassesPerWeek > 1 {
			multiDay = append(multiDay, g)
		}
	}

	if len(multiDay) > 0 {
		b.WriteString("Multi-day series:\n")
		for _, g := range multiDay {
			fmt.Fprintf(&b, "  %s: %d per week\n", groupLabel(g), g.ClassesPerWeek)
		}
	}

	overall := series.Overall(report.Groups)
	fmt.Fprintf(&b, "Overall completeness: %d/%d (%s)\n",
		observed, overall.Expected, formatPercent(overall.Ratio))

	_, err := io.WriteString(s.out, b.String())
	return err
}

func groupLabel(g domain.SeriesGroup) string {
	return fmt.Sprintf("%s [%s, %s]", g.Key.Name, g.Key.Location, domain.JoinWeekdays(g.Weekdays))
}

// stages renders pass counts in pipeline order, followed by anything unexpected.
func stages(passes map[string]int) string {
	var parts []string
	seen := map[string]bool{}
	for _, name := range stageOrder {
		seen[name] = true
		if passes[name] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", name, passes[name]))
		}
	}
	var extra []string
	for name := range passes {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		parts = append(parts, fmt.Sprintf("%s %d", name, passes[name]))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func percentOf(n, total int) string {
	if total == 0 {
		return formatPercent(0)
	}
	return formatPercent(float64(n) / float64(total))
}
