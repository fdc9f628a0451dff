package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"LectureIndexer/internal/calendar"
	"LectureIndexer/internal/config"
	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/extract"
	"LectureIndexer/internal/infrastructure/llm"
	"LectureIndexer/internal/infrastructure/parser"
	"LectureIndexer/internal/infrastructure/report"
	"LectureIndexer/internal/infrastructure/telegram"
	"LectureIndexer/internal/logging"
	"LectureIndexer/internal/ports"
	"LectureIndexer/internal/schedule"
	"LectureIndexer/internal/series"
	"LectureIndexer/internal/usecase"
)

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application; the summary goes to out (stdout when nil).
func New(cfg config.Config, baseLogger *slog.Logger, out io.Writer) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if out == nil {
		out = os.Stdout
	}

	registry, err := loadSchedule(cfg.Schedule)
	if err != nil {
		return nil, err
	}
	defaultLocation, err := domain.ParseLocation(cfg.Defaults.Location)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}
	converter, err := calendar.ConverterByName(cfg.Defaults.HijriCalendar)
	if err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}
	mode, err := series.ParseMode(cfg.Aggregation.Mode)
	if err != nil {
		return nil, fmt.Errorf("aggregation: %w", err)
	}
	baseLogger.Debug("schedule loaded", "entries", registry.Len(), "series", len(registry.Names()))

	source := parser.NewStrategySource(parser.NewDefaultRegistry(), cfg.Inputs, baseLogger.With("component", "source"))

	matcher := schedule.NewMatcher(registry, schedule.Options{
		MinScore:      cfg.Matching.MinScore,
		LooseMinScore: cfg.Matching.LooseMinScore,
	})
	resolver := usecase.NewResolver(
		extract.New(cfg.Defaults.Venue, converter),
		matcher,
		usecase.ResolverConfig{
			Speaker:         cfg.Defaults.Speaker,
			Venue:           cfg.Defaults.Venue,
			DefaultLocation: defaultLocation,
			KeywordPass:     cfg.Matching.KeywordPassEnabled(),
		},
	)

	var fallback ports.FallbackExtractor
	if cfg.LLM.Enabled() {
		fallback = llm.NewOpenAIExtractor(cfg.LLM)
	}

	writers := []ports.ReportWriter{
		report.NewCSVWriter(cfg.Output.RecordsPath(), cfg.Output.SeriesPath(), cfg.Output.GapsPath()),
		report.NewSummaryWriter(out),
	}
	var notifiers []ports.ReportWriter
	if tg := cfg.Notifications.Telegram; tg.Enabled() {
		notifiers = append(notifiers, telegram.NewNotifier(tg.BotToken, tg.ChatID))
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:        source,
		Resolver:      resolver,
		Aggregator:    series.NewAggregator(mode),
		Fallback:      fallback,
		Writers:       writers,
		Notifiers:     notifiers,
		Logger:        baseLogger.With("component", "pipeline"),
		FallbackDelay: cfg.LLM.Delay,
		FallbackLimit: cfg.LLM.MaxRecords,
		ProgressEvery: cfg.ProgressEvery,
	})
	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}, nil
}

// Run performs a single batch execution.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	rep, err := a.pipeline.Run(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("run finished",
		"run_id", rep.RunID,
		"records", len(rep.Records),
		"records_table", a.cfg.Output.RecordsPath(),
	)
	return nil
}

func loadSchedule(cfg config.ScheduleConfig) (*schedule.Registry, error) {
	if cfg.Path == "" {
		reg, err := schedule.Default()
		if err != nil {
			return nil, fmt.Errorf("load built-in schedule: %w", err)
		}
		return reg, nil
	}
	reg, err := schedule.LoadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	return reg, nil
}
