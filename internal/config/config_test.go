package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lectures.yaml")
	doc := `
logging:
  level: debug
inputs:
  - name: archive
    format: telegram-html
    path: archive/messages.html
    options:
      filename_contains: AUDIO-
  - name: corrections
    format: records-csv
    path: corrected.csv
output:
  dir: out
matching:
  minScore: 8
  keywordPass: false
aggregation:
  mode: per-weekday
defaults:
  hijriCalendar: tabular
llm:
  delay: 2s
  maxRecords: 10
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv("LLM_API_KEY", "secret")
	t.Setenv("LECTURES_OUTPUT_DIR", "reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	require.Len(t, cfg.Inputs, 2)
	assert.Equal(t, "AUDIO-", cfg.Inputs[0].Options["filename_contains"])
	assert.Equal(t, "records-csv", cfg.Inputs[1].Format)
	assert.Equal(t, "reports", cfg.Output.Dir)
	assert.Equal(t, filepath.Join("reports", "series_summary.csv"), cfg.Output.SeriesPath())
	assert.Equal(t, 8, cfg.Matching.MinScore)
	assert.Equal(t, 3, cfg.Matching.LooseMinScore)
	assert.False(t, cfg.Matching.KeywordPassEnabled())
	assert.Equal(t, "per-weekday", cfg.Aggregation.Mode)
	assert.Equal(t, 2*time.Second, cfg.LLM.Delay)
	assert.Equal(t, 10, cfg.LLM.MaxRecords)
	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, defaultSpeaker, cfg.Defaults.Speaker)
	assert.Equal(t, "tabular", cfg.Defaults.HijriCalendar)
}

func TestLoadInputOverride(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(inputPathEnv, "exports/messages_parsed.json")

	cfg, err := Load()
	require.NoError(t, err)
	require.Len(t, cfg.Inputs, 1)
	assert.Equal(t, "messages-json", cfg.Inputs[0].Format)
	assert.True(t, cfg.Matching.KeywordPassEnabled())
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Inputs = nil
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Inputs[0].Path = ""
	assert.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Matching.MinScore = -1
	assert.Error(t, cfg.Validate())
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "telegram-html", FormatForPath("messages.html"))
	assert.Equal(t, "messages-json", FormatForPath("a.JSON"))
	assert.Equal(t, "records-csv", FormatForPath("table.csv"))
}

func TestLoadTelegramFromEnv(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Notifications.Telegram.Enabled())

	t.Setenv("TELEGRAM_CHAT_ID", "-100200")
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.Notifications.Telegram.Enabled())
	assert.Equal(t, "-100200", cfg.Notifications.Telegram.ChatID)
}
