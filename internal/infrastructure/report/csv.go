package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"LectureIndexer/internal/calendar"
	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/infrastructure/parser"
	"LectureIndexer/internal/ports"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RecordHeader is the column set of the record table; the record reader accepts it back.
var RecordHeader = []string{
	"SequenceInSeries",
	parser.ColumnSeriesName,
	parser.ColumnLocation,
	"DaysTaught",
	"ClassesPerWeek",
	"DayOfWeek",
	"RecordingDate",
	parser.ColumnFileName,
	parser.ColumnType,
	parser.ColumnTopic,
	parser.ColumnSubTopic,
	parser.ColumnSerial,
	parser.ColumnAuthor,
	parser.ColumnSpeaker,
	parser.ColumnHijriDate,
	parser.ColumnGregorian,
	parser.ColumnClipLength,
	parser.ColumnCategory,
	"MatchedBy",
	parser.ColumnDoubts,
}

// SeriesHeader is the column set of the per-series summary table.
var SeriesHeader = []string{
	"SeriesName", "Location", "DaysTaught", "ClassesPerWeek", "Category", "OriginalAuthor",
	"Lessons", "FirstDate", "LastDate", "WeeksSpan", "Expected", "Missing", "Completeness",
}

// GapHeader is the column set of the gap table.
var GapHeader = []string{
	"SeriesName", "Location", "From", "To", "DaysGap", "WeeksGap", "EstimatedMissing",
}

// CSVWriter writes the three result tables as UTF-8 CSV with a byte-order mark.
type CSVWriter struct {
	recordsPath string
	seriesPath  string
	gapsPath    string
}

var _ ports.ReportWriter = (*CSVWriter)(nil)

// NewCSVWriter builds a writer; an empty path skips that table.
func NewCSVWriter(recordsPath, seriesPath, gapsPath string) *CSVWriter {
	return &CSVWriter{recordsPath: recordsPath, seriesPath: seriesPath, gapsPath: gapsPath}
}

// Write renders every table.
func (w *CSVWriter) Write(ctx context.Context, report domain.Report) error {
	tables := []struct {
		path   string
		header []string
		rows   func(domain.Report) [][]string
	}{
		{w.recordsPath, RecordHeader, RecordRows},
		{w.seriesPath, SeriesHeader, SeriesRows},
		{w.gapsPath, GapHeader, GapRows},
	}
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if table.path == "" {
			continue
		}
		if err := writeTable(table.path, table.header, table.rows(report)); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	return f.Close()
}

// RecordRows lists every record once: grouped series lessons in date order,
// then everything without a series in input order.
func RecordRows(report domain.Report) [][]string {
	rows := make([][]string, 0, len(report.Records))
	for _, g := range report.Groups {
		days := domain.JoinWeekdays(g.Weekdays)
		for i, rec := range g.Lessons {
			rows = append(rows, recordRow(rec, strconv.Itoa(i+1), days, strconv.Itoa(g.ClassesPerWeek)))
		}
	}
	for _, rec := range report.Unresolved {
		rows = append(rows, recordRow(rec, "", domain.Unavailable, ""))
	}
	return rows
}

func recordRow(rec domain.Record, seq, days, perWeek string) []string {
	dayOfWeek, recorded := domain.Unavailable, domain.Unavailable
	if day, ok := rec.Weekday(); ok {
		dayOfWeek = day.String()
		recorded = calendar.FormatDate(rec.Date)
	}
	return []string{
		seq,
		rec.SeriesName(),
		rec.Location.String(),
		days,
		perWeek,
		dayOfWeek,
		recorded,
		rec.FileName,
		string(rec.Type),
		rec.Topic,
		rec.SubTopic,
		rec.Serial.String(),
		rec.Author,
		rec.Speaker,
		rec.HijriDate,
		rec.GregorianText,
		rec.ClipLength,
		rec.Category,
		rec.MatchedBy,
		rec.Doubts.String(),
	}
}

// SeriesRows summarizes each group; groups too small to analyze leave the statistics unavailable.
func SeriesRows(report domain.Report) [][]string {
	rows := make([][]string, 0, len(report.Groups))
	for _, g := range report.Groups {
		row := []string{
			g.Key.Name,
			g.Key.Location.String(),
			domain.JoinWeekdays(g.Weekdays),
			strconv.Itoa(g.ClassesPerWeek),
			g.Category,
			g.Author,
			strconv.Itoa(g.Count()),
		}
		if g.Analyzed {
			row = append(row,
				calendar.FormatDate(g.FirstDate),
				calendar.FormatDate(g.LastDate),
				strconv.Itoa(g.WeeksSpan),
				strconv.Itoa(g.Expected),
				strconv.Itoa(g.Missing),
				formatPercent(g.Completeness),
			)
		} else {
			for i := 0; i < 6; i++ {
				row = append(row, domain.Unavailable)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// GapRows lists the gaps of every analyzed group.
func GapRows(report domain.Report) [][]string {
	var rows [][]string
	for _, g := range report.Groups {
		for _, gap := range g.Gaps {
			rows = append(rows, []string{
				g.Key.Name,
				g.Key.Location.String(),
				calendar.FormatDate(gap.From),
				calendar.FormatDate(gap.To),
				strconv.Itoa(gap.Days),
				strconv.Itoa(gap.Weeks),
				strconv.Itoa(gap.EstimatedMissing),
			})
		}
	}
	return rows
}

func formatPercent(ratio float64) string {
	return strconv.FormatFloat(ratio*100, 'f', 1, 64) + "%"
}
