package ports

import (
	"context"

	"LectureIndexer/internal/domain"
)

// MessageSource loads every configured input as one ordered batch.
type MessageSource interface {
	Messages(ctx context.Context) ([]domain.Message, error)
}

// FallbackExtractor asks an external text-understanding service about a message
// the schedule matcher could not resolve.
type FallbackExtractor interface {
	Extract(ctx context.Context, text string) (domain.ExternalFields, error)
}

// ReportWriter publishes the results of a run (tables on disk, console summary).
type ReportWriter interface {
	Write(ctx context.Context, report domain.Report) error
}
