package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	configPathEnv  = "LECTURES_CONFIG"
	inputPathEnv   = "LECTURES_INPUT"
	inputFormatEnv = "LECTURES_INPUT_FORMAT"

	defaultSpeaker = "حسن بن محمد منصور الدغريري"
	defaultVenue   = "جامع الورود"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Inputs        []InputConfig      `yaml:"inputs"`
	Output        OutputConfig       `yaml:"output"`
	Schedule      ScheduleConfig     `yaml:"schedule"`
	Matching      MatchingConfig     `yaml:"matching"`
	Aggregation   AggregationConfig  `yaml:"aggregation"`
	Defaults      DefaultsConfig     `yaml:"defaults"`
	LLM           LLMConfig          `yaml:"llm"`
	Notifications NotificationConfig `yaml:"notifications"`
	ProgressEvery int                `yaml:"progressEvery" env:"LECTURES_PROGRESS_EVERY"`
}

// LoggingConfig selects slog level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// InputConfig describes one message input and the reader format that parses it.
type InputConfig struct {
	Name    string            `yaml:"name"`
	Format  string            `yaml:"format"`
	Path    string            `yaml:"path"`
	Options map[string]string `yaml:"options"`
}

// OutputConfig names the tables written at the end of a run.
type OutputConfig struct {
	Dir         string `yaml:"dir"         env:"LECTURES_OUTPUT_DIR"`
	RecordsFile string `yaml:"recordsFile"`
	SeriesFile  string `yaml:"seriesFile"`
	GapsFile    string `yaml:"gapsFile"`
}

// RecordsPath joins the output directory with the records table name.
func (o OutputConfig) RecordsPath() string { return filepath.Join(o.Dir, o.RecordsFile) }

// SeriesPath joins the output directory with the series table name.
func (o OutputConfig) SeriesPath() string { return filepath.Join(o.Dir, o.SeriesFile) }

// GapsPath joins the output directory with the gaps table name.
func (o OutputConfig) GapsPath() string { return filepath.Join(o.Dir, o.GapsFile) }

// ScheduleConfig points at a schedule file; empty means the built-in schedule.
type ScheduleConfig struct {
	Path string `yaml:"path" env:"LECTURES_SCHEDULE"`
}

// MatchingConfig tunes the schedule matcher.
type MatchingConfig struct {
	MinScore      int   `yaml:"minScore"      env:"LECTURES_MIN_SCORE"`
	LooseMinScore int   `yaml:"looseMinScore" env:"LECTURES_LOOSE_MIN_SCORE"`
	KeywordPass   *bool `yaml:"keywordPass"`
}

// KeywordPassEnabled reports whether leftovers get the looser keyword pass.
func (m MatchingConfig) KeywordPassEnabled() bool {
	return m.KeywordPass == nil || *m.KeywordPass
}

// AggregationConfig selects the series grouping policy.
type AggregationConfig struct {
	Mode string `yaml:"mode" env:"LECTURES_AGGREGATION_MODE"`
}

// DefaultsConfig carries values the messages never state.
type DefaultsConfig struct {
	Speaker  string `yaml:"speaker"`
	Venue    string `yaml:"venue"`
	Location string `yaml:"location"`

	// HijriCalendar is "ummalqura" or "tabular".
	HijriCalendar string `yaml:"hijriCalendar" env:"LECTURES_HIJRI_CALENDAR"`
}

// LLMConfig defines how to contact the OpenAI-compatible fallback service.
type LLMConfig struct {
	Endpoint     string        `yaml:"endpoint"     env:"LLM_ENDPOINT"`
	Model        string        `yaml:"model"        env:"LLM_MODEL"`
	APIKey       string        `yaml:"apiKey"       env:"LLM_API_KEY"`
	SystemPrompt string        `yaml:"systemPrompt"`
	Delay        time.Duration `yaml:"delay"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRecords   int           `yaml:"maxRecords"`
}

// Enabled reports whether the fallback service is configured.
func (l LLMConfig) Enabled() bool {
	return strings.TrimSpace(l.APIKey) != ""
}

// NotificationConfig encapsulates outbound channels for the run summary.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to post the summary to a chat.
type TelegramConfig struct {
	BotToken string `yaml:"botToken" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `yaml:"chatId"   env:"TELEGRAM_CHAT_ID"`
}

// Enabled reports whether both the bot token and the chat are set.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads the YAML file named by LECTURES_CONFIG (if set), merges it over
// the defaults and applies environment overrides.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		var fileCfg Config
		if err := cleanenv.ReadConfig(path, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("no inputs configured")
	}
	for i, in := range c.Inputs {
		if in.Path == "" {
			return fmt.Errorf("input %d (%s): path is empty", i, in.Name)
		}
		if in.Format == "" {
			return fmt.Errorf("input %d (%s): format is empty", i, in.Name)
		}
	}
	if c.Matching.MinScore < 0 || c.Matching.LooseMinScore < 0 {
		return errors.New("match scores must not be negative")
	}
	if c.LLM.MaxRecords < 0 {
		return errors.New("llm maxRecords must not be negative")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv(inputPathEnv); path != "" {
		format := os.Getenv(inputFormatEnv)
		if format == "" {
			format = FormatForPath(path)
		}
		c.Inputs = []InputConfig{{Name: "env", Format: format, Path: path}}
	}
}

// FormatForPath guesses the reader format from a file extension.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "messages-json"
	case ".csv":
		return "records-csv"
	default:
		return "telegram-html"
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if len(override.Inputs) > 0 {
		base.Inputs = override.Inputs
	}

	if override.Output.Dir != "" {
		base.Output.Dir = override.Output.Dir
	}
	if override.Output.RecordsFile != "" {
		base.Output.RecordsFile = override.Output.RecordsFile
	}
	if override.Output.SeriesFile != "" {
		base.Output.SeriesFile = override.Output.SeriesFile
	}
	if override.Output.GapsFile != "" {
		base.Output.GapsFile = override.Output.GapsFile
	}

	if override.Schedule.Path != "" {
		base.Schedule.Path = override.Schedule.Path
	}

	if override.Matching.MinScore != 0 {
		base.Matching.MinScore = override.Matching.MinScore
	}
	if override.Matching.LooseMinScore != 0 {
		base.Matching.LooseMinScore = override.Matching.LooseMinScore
	}
	if override.Matching.KeywordPass != nil {
		base.Matching.KeywordPass = override.Matching.KeywordPass
	}

	if override.Aggregation.Mode != "" {
		base.Aggregation.Mode = override.Aggregation.Mode
	}

	if override.Defaults.Speaker != "" {
		base.Defaults.Speaker = override.Defaults.Speaker
	}
	if override.Defaults.Venue != "" {
		base.Defaults.Venue = override.Defaults.Venue
	}
	if override.Defaults.Location != "" {
		base.Defaults.Location = override.Defaults.Location
	}
	if override.Defaults.HijriCalendar != "" {
		base.Defaults.HijriCalendar = override.Defaults.HijriCalendar
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.SystemPrompt != "" {
		base.LLM.SystemPrompt = override.LLM.SystemPrompt
	}
	if override.LLM.Delay != 0 {
		base.LLM.Delay = override.LLM.Delay
	}
	if override.LLM.Timeout != 0 {
		base.LLM.Timeout = override.LLM.Timeout
	}
	if override.LLM.MaxRecords != 0 {
		base.LLM.MaxRecords = override.LLM.MaxRecords
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.ProgressEvery != 0 {
		base.ProgressEvery = override.ProgressEvery
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Inputs: []InputConfig{
			{Name: "export", Format: "telegram-html", Path: "messages.html"},
		},
		Output: OutputConfig{
			Dir:         ".",
			RecordsFile: "lectures_by_series.csv",
			SeriesFile:  "series_summary.csv",
			GapsFile:    "series_gaps.csv",
		},
		Matching:    MatchingConfig{MinScore: 5, LooseMinScore: 3},
		Aggregation: AggregationConfig{Mode: "combined"},
		Defaults: DefaultsConfig{
			Speaker:       defaultSpeaker,
			Venue:         defaultVenue,
			Location:      "onsite",
			HijriCalendar: "ummalqura",
		},
		LLM: LLMConfig{
			Endpoint:     "https://api.openai.com/v1",
			Model:        "gpt-4o-mini",
			SystemPrompt: "",
			Delay:        time.Second,
			Timeout:      30 * time.Second,
			MaxRecords:   50,
		},
		ProgressEvery: 25,
	}
}
