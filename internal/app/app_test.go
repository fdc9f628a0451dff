package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LectureIndexer/internal/config"
	"LectureIndexer/internal/logging"
)

const messagesJSON = `[
  {"filename": "a.m4a", "message_text": "الدرس الخامس من شرح كتاب التوحيد", "clip_length": "40:00", "greg_date": "07.01.2024"},
  {"filename": "b.m4a", "message_text": "الدرس السادس من شرح كتاب التوحيد", "clip_length": "41:00", "greg_date": "09.01.2024"},
  {"filename": "c.m4a", "message_text": "#خطبة_الجمعة\nعنوان الخطبة: فضل الصدقة", "clip_length": "", "greg_date": "12.01.2024"}
]`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "messages.json")
	require.NoError(t, os.WriteFile(input, []byte(messagesJSON), 0o644))

	return config.Config{
		Inputs: []config.InputConfig{{Name: "dump", Format: "messages-json", Path: input}},
		Output: config.OutputConfig{
			Dir:         filepath.Join(dir, "out"),
			RecordsFile: "records.csv",
			SeriesFile:  "series.csv",
			GapsFile:    "gaps.csv",
		},
		Aggregation: config.AggregationConfig{Mode: "combined"},
		Defaults:    config.DefaultsConfig{Speaker: "الشيخ", Venue: "جامع الورود", Location: "onsite"},
	}
}

func TestApplicationRun(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	var out bytes.Buffer
	application, err := New(cfg, logging.Discard(), &out)
	require.NoError(t, err)

	require.NoError(t, application.Run(context.Background()))

	for _, p := range []string{cfg.Output.RecordsPath(), cfg.Output.SeriesPath(), cfg.Output.GapsPath()} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	raw, err := os.ReadFile(cfg.Output.RecordsPath())
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(raw), "\n"))

	assert.Contains(t, out.String(), "Records: 3")
	assert.Contains(t, out.String(), "By type: Series 2, Khutba 1, Lecture 0, Unknown 0")
}

func TestApplicationMissingInput(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Inputs[0].Path = filepath.Join(t.TempDir(), "missing.json")
	application, err := New(cfg, logging.Discard(), &bytes.Buffer{})
	require.NoError(t, err)

	assert.Error(t, application.Run(context.Background()))
}

func TestNewRejectsBadSettings(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Aggregation.Mode = "weekly"
	_, err := New(cfg, logging.Discard(), &bytes.Buffer{})
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Defaults.Location = "mars"
	_, err = New(cfg, logging.Discard(), &bytes.Buffer{})
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Defaults.HijriCalendar = "julian"
	_, err = New(cfg, logging.Discard(), &bytes.Buffer{})
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Schedule.Path = filepath.Join(t.TempDir(), "schedule.yaml")
	_, err = New(cfg, logging.Discard(), &bytes.Buffer{})
	assert.Error(t, err)
}
