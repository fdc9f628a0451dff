package parser

import (
	"context"
	"fmt"
	"log/slog"

	"LectureIndexer/internal/config"
	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/ports"
	"LectureIndexer/internal/source"
)

// StrategySource implements MessageSource via registered input readers.
type StrategySource struct {
	registry *source.Registry
	inputs   []config.InputConfig
	logger   *slog.Logger
}

var _ ports.MessageSource = (*StrategySource)(nil)

// NewStrategySource wires the reader registry with config-defined inputs.
func NewStrategySource(reg *source.Registry, inputs []config.InputConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		inputs:   inputs,
		logger:   log,
	}
}

// NewDefaultRegistry registers every built-in input format.
func NewDefaultRegistry() *source.Registry {
	reg := source.NewRegistry()
	reg.Register(NewTelegramExportReader())
	reg.Register(NewMessagesJSONReader())
	reg.Register(NewRecordsCSVReader())
	return reg
}

// Messages reads every configured input in order and numbers the messages globally.
func (s *StrategySource) Messages(ctx context.Context) ([]domain.Message, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("reader registry is not configured")
	}

	s.debug("read inputs", "inputs", len(s.inputs))

	var aggregated []domain.Message
	for _, input := range s.inputs {
		s.debug("process input", "input", input.Name, "format", input.Format, "path", input.Path)
		reader, err := s.registry.Resolve(input.Format)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", input.Name, err)
		}

		results, err := reader.Read(ctx, source.Request{
			Name:    input.Name,
			Path:    input.Path,
			Options: input.Options,
		})
		if err != nil {
			return nil, fmt.Errorf("read input %s: %w", input.Name, err)
		}

		for i := range results {
			results[i].Index = len(aggregated) + i + 1
			if results[i].Source == "" {
				results[i].Source = input.Name
			}
		}
		s.debug("input produced messages", "input", input.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_messages", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
