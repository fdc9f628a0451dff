package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/ports"
	"LectureIndexer/internal/series"
)

type fakeSource struct {
	messages []domain.Message
	err      error
}

func (f fakeSource) Messages(context.Context) ([]domain.Message, error) {
	return f.messages, f.err
}

type fakeFallback struct {
	calls  []string
	fields domain.ExternalFields
	err    error
}

func (f *fakeFallback) Extract(_ context.Context, text string) (domain.ExternalFields, error) {
	f.calls = append(f.calls, text)
	return f.fields, f.err
}

type fakeWriter struct {
	reports []domain.Report
	err     error
}

func (f *fakeWriter) Write(_ context.Context, report domain.Report) error {
	f.reports = append(f.reports, report)
	return f.err
}

func testMessages() []domain.Message {
	return []domain.Message{
		{Index: 1, Text: "الدرس الخامس من شرح كتاب التوحيد", GregorianDate: "07.01.2024"},
		{Index: 2, Text: "الدرس السادس من شرح كتاب التوحيد", GregorianDate: "09.01.2024"},
		{Index: 3, Text: "#خطبة_الجمعة\nعنوان الخطبة: فضل التوحيد", GregorianDate: "12.01.2024"},
		{Index: 4, Text: "الدرس الأول من كتاب غير معروف", GregorianDate: "11.01.2024"},
		{Index: 5, Text: "تسجيل صوتي", GregorianDate: "11.01.2024"},
		{Index: 6, FileName: "empty.m4a"},
	}
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	p := NewPipeline(PipelineDeps{
		Source:        fakeSource{messages: testMessages()},
		Resolver:      newTestResolver(t),
		Aggregator:    series.NewAggregator(series.ModeCombined),
		Writers:       []ports.ReportWriter{writer},
		ProgressEvery: 2,
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, string(series.ModeCombined), report.Mode)
	assert.Len(t, report.Records, 6)
	require.Len(t, report.Groups, 1)
	assert.Equal(t, "الملخص شرح كتاب التوحيد", report.Groups[0].Key.Name)
	assert.Equal(t, 2, report.Groups[0].Count())
	assert.Len(t, report.Unresolved, 4)
	assert.Equal(t, map[string]int{"schedule": 2, MatchedKhutba: 1, MatchedNone: 3}, report.Passes)

	require.Len(t, writer.reports, 1)
	assert.Equal(t, report.RunID, writer.reports[0].RunID)
}

func TestPipelineFallback(t *testing.T) {
	t.Parallel()

	fallback := &fakeFallback{fields: domain.ExternalFields{Type: "Series", SeriesName: "الملخص شرح كتاب التوحيد"}}
	p := NewPipeline(PipelineDeps{
		Source: fakeSource{messages: []domain.Message{
			{Index: 1, Text: "تسجيل صوتي", GregorianDate: "07.01.2024"},
			{Index: 2, Text: "تسجيل صوتي"},
			{Index: 3, Text: "تسجيل صوتي", GregorianDate: "11.01.2024"},
			{Index: 4, FileName: "empty.m4a"},
		}},
		Resolver: newTestResolver(t),
		Fallback: fallback,
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	// Only unknown records with text are sent.
	assert.Len(t, fallback.calls, 3)
	assert.Equal(t, MatchedExternal, report.Records[0].MatchedBy)
	assert.Equal(t, MatchedExternal, report.Records[1].MatchedBy)
	assert.Equal(t, "الملخص شرح كتاب التوحيد", report.Records[0].SeriesName())

	// Thursday has no scheduled series.
	assert.False(t, report.Records[2].Resolved())
	assert.Equal(t, domain.TypeUnknown, report.Records[2].Type)
	assert.Equal(t, 2, report.Passes[MatchedExternal])

	require.Len(t, report.Groups, 1)
	assert.Equal(t, []time.Weekday{time.Sunday}, report.Groups[0].Weekdays)
}

func TestPipelineFallbackLimitAndFailure(t *testing.T) {
	t.Parallel()

	fallback := &fakeFallback{err: errors.New("timeout")}
	p := NewPipeline(PipelineDeps{
		Source:        fakeSource{messages: testMessages()},
		Resolver:      newTestResolver(t),
		Fallback:      fallback,
		FallbackLimit: 1,
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, fallback.calls, 1)
	assert.True(t, report.Records[3].Doubts.Has(DoubtExternalFailed))
	assert.False(t, report.Records[4].Doubts.Has(DoubtExternalFailed))
	assert.Equal(t, domain.TypeUnknown, report.Records[3].Type)
}

func TestPipelineSourceError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("missing export")
	p := NewPipeline(PipelineDeps{Source: fakeSource{err: sentinel}, Resolver: newTestResolver(t)})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))
}

func TestPipelineWriterError(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{err: errors.New("disk full")}
	p := NewPipeline(PipelineDeps{
		Source:   fakeSource{messages: testMessages()},
		Resolver: newTestResolver(t),
		Writers:  []ports.ReportWriter{writer},
	})

	report, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Len(t, report.Records, 6)
}

func TestPipelineNotifierErrorIsLogged(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	notifier := &fakeWriter{err: errors.New("bot blocked")}
	p := NewPipeline(PipelineDeps{
		Source:    fakeSource{messages: testMessages()},
		Resolver:  newTestResolver(t),
		Writers:   []ports.ReportWriter{writer},
		Notifiers: []ports.ReportWriter{notifier},
	})

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Records, 6)
	assert.Len(t, writer.reports, 1)
	assert.Len(t, notifier.reports, 1)
}

func TestPipelineNotConfigured(t *testing.T) {
	t.Parallel()

	_, err := NewPipeline(PipelineDeps{}).Run(context.Background())
	assert.Error(t, err)
}

func TestPassCounts(t *testing.T) {
	t.Parallel()

	counts := PassCounts([]domain.Record{
		{MatchedBy: "schedule (Sunday)"},
		{MatchedBy: "schedule (Monday)"},
		{MatchedBy: "keywords"},
		{MatchedBy: "keywords (Friday)"},
		{},
	})
	assert.Equal(t, map[string]int{"schedule": 2, "keywords": 2, MatchedNone: 1}, counts)
}
