package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/logging"
	"LectureIndexer/internal/ports"
	"LectureIndexer/internal/series"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.MessageSource
	Resolver   *Resolver
	Aggregator *series.Aggregator
	Fallback   ports.FallbackExtractor
	Writers    []ports.ReportWriter
	// Notifiers run after the writers; their failures are only logged.
	Notifiers  []ports.ReportWriter
	Logger     *slog.Logger

	// FallbackDelay separates consecutive fallback calls.
	FallbackDelay time.Duration
	// FallbackLimit caps fallback calls per run; zero means no cap.
	FallbackLimit int
	// ProgressEvery logs a progress line every N resolved messages; zero disables it.
	ProgressEvery int
}

// Pipeline implements the batch reconciliation workflow.
type Pipeline struct {
	source        ports.MessageSource
	resolver      *Resolver
	aggregator    *series.Aggregator
	fallback      ports.FallbackExtractor
	writers       []ports.ReportWriter
	notifiers     []ports.ReportWriter
	logger        *slog.Logger
	fallbackDelay time.Duration
	fallbackLimit int
	progressEvery int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	aggregator := deps.Aggregator
	if aggregator == nil {
		aggregator = series.NewAggregator(series.ModeCombined)
	}
	return &Pipeline{
		source:        deps.Source,
		resolver:      deps.Resolver,
		aggregator:    aggregator,
		fallback:      deps.Fallback,
		writers:       deps.Writers,
		notifiers:     deps.Notifiers,
		logger:        logger,
		fallbackDelay: deps.FallbackDelay,
		fallbackLimit: deps.FallbackLimit,
		progressEvery: deps.ProgressEvery,
	}
}

// Run reads every message, resolves and aggregates the records and hands the
// report to the writers. Only input and output failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	runID := uuid.NewString()
	log := p.logger.With("run_id", runID)

	if p.source == nil || p.resolver == nil {
		return domain.Report{}, fmt.Errorf("pipeline is not configured")
	}

	messages, err := p.source.Messages(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("read messages: %w", err)
	}
	log.Info("messages loaded", "count", len(messages))

	records := make([]domain.Record, len(messages))
	for i, msg := range messages {
		records[i] = p.resolver.Resolve(msg)
		if p.progressEvery > 0 && (i+1)%p.progressEvery == 0 {
			log.Info("resolving", "done", i+1, "total", len(messages))
		}
	}

	if p.fallback != nil {
		p.runFallback(ctx, log, messages, records)
	}

	agg := p.aggregator.Aggregate(records)
	report := domain.Report{
		RunID:      runID,
		Mode:       string(agg.Mode),
		Records:    records,
		Groups:     agg.Groups,
		Unresolved: agg.Unresolved,
		Passes:     PassCounts(records),
	}
	log.Info("records resolved",
		"records", len(records),
		"series", len(agg.Groups),
		"unresolved", len(agg.Unresolved),
		"mode", report.Mode,
	)

	for _, w := range p.writers {
		if err := w.Write(ctx, report); err != nil {
			return report, fmt.Errorf("write report: %w", err)
		}
	}
	for _, n := range p.notifiers {
		if err := n.Write(ctx, report); err != nil {
			log.Warn("notification failed", "err", err)
		}
	}
	return report, nil
}

// runFallback sends the records that are still unknown to the external
// service, one call at a time with a fixed delay. A failed call only marks its record.
func (p *Pipeline) runFallback(ctx context.Context, log *slog.Logger, messages []domain.Message, records []domain.Record) {
	calls := 0
	for i := range records {
		if records[i].Type != domain.TypeUnknown || strings.TrimSpace(messages[i].Text) == "" {
			continue
		}
		if p.fallbackLimit > 0 && calls >= p.fallbackLimit {
			log.Info("fallback limit reached", "calls", calls)
			return
		}
		if calls > 0 && p.fallbackDelay > 0 {
			select {
			case <-ctx.Done():
				log.Warn("fallback interrupted", "err", ctx.Err())
				return
			case <-time.After(p.fallbackDelay):
			}
		}
		calls++

		fields, err := p.fallback.Extract(ctx, messages[i].Text)
		if err != nil {
			log.Warn("fallback extraction failed", "index", records[i].Index, "err", err)
			records[i].Doubts.Add(DoubtExternalFailed)
			continue
		}
		if p.resolver.ApplyExternal(&records[i], messages[i], fields) {
			log.Debug("fallback resolved record", "index", records[i].Index, "series", records[i].SeriesName())
		}
	}
	log.Info("fallback done", "calls", calls)
}

// PassCounts tallies records by the stage that settled them, with the weekday
// suffix of matcher labels dropped.
func PassCounts(records []domain.Record) map[string]int {
	counts := map[string]int{}
	for _, rec := range records {
		key := rec.MatchedBy
		if i := strings.Index(key, " ("); i > 0 {
			key = key[:i]
		}
		if key == "" {
			key = MatchedNone
		}
		counts[key]++
	}
	return counts
}
