package parser

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/source"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Column names of the record table, shared with the report writer.
const (
	ColumnFileName   = "TelegramFileName"
	ColumnType       = "Type"
	ColumnTopic      = "Topic"
	ColumnSeriesName = "SeriesName"
	ColumnSubTopic   = "SubTopic"
	ColumnSerial     = "Serial"
	ColumnAuthor     = "OriginalAuthor"
	ColumnLocation   = "Location"
	ColumnSpeaker    = "Sheikh"
	ColumnHijriDate  = "DateInArabic"
	ColumnGregorian  = "DateInGreg"
	ColumnClipLength = "ClipLength"
	ColumnCategory   = "Category"
	ColumnDoubts     = "doubtsStatus"
)

// RecordsCSVReader re-ingests a record table written by a previous run.
type RecordsCSVReader struct{}

var _ source.Reader = (*RecordsCSVReader)(nil)

// NewRecordsCSVReader builds the reader.
func NewRecordsCSVReader() *RecordsCSVReader {
	return &RecordsCSVReader{}
}

// Name identifies the format inside the registry.
func (r *RecordsCSVReader) Name() string {
	return "records-csv"
}

// Read maps rows by header name, so column order does not matter.
func (r *RecordsCSVReader) Read(ctx context.Context, req source.Request) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("read records %s: %w", req.Path, err)
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode records %s: %w", req.Path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := map[string]int{}
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	if _, ok := header[ColumnFileName]; !ok {
		return nil, fmt.Errorf("records %s: missing %s column", req.Path, ColumnFileName)
	}

	messages := make([]domain.Message, 0, len(rows)-1)
	for _, row := range rows[1:] {
		get := func(column string) string {
			i, ok := header[column]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		messages = append(messages, domain.Message{
			FileName:      get(ColumnFileName),
			ClipLength:    blankUnavailable(get(ColumnClipLength)),
			GregorianDate: blankUnavailable(get(ColumnGregorian)),
			Prior: &domain.TableRow{
				SeriesName: get(ColumnSeriesName),
				Type:       get(ColumnType),
				Topic:      get(ColumnTopic),
				SubTopic:   get(ColumnSubTopic),
				Serial:     get(ColumnSerial),
				Author:     get(ColumnAuthor),
				Location:   get(ColumnLocation),
				Speaker:    get(ColumnSpeaker),
				HijriDate:  get(ColumnHijriDate),
				Category:   get(ColumnCategory),
				Doubts:     get(ColumnDoubts),
			},
		})
	}
	return messages, nil
}
