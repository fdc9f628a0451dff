package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LectureIndexer/internal/domain"
)

type stubReader struct{ name string }

func (s stubReader) Name() string { return s.name }

func (s stubReader) Read(context.Context, Request) ([]domain.Message, error) {
	return []domain.Message{{Text: s.name}}, nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubReader{name: "b"})
	reg.Register(stubReader{name: "a"})

	reader, err := reg.Resolve("a")
	require.NoError(t, err)
	msgs, err := reader.Read(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "a", msgs[0].Text)
	assert.Equal(t, []string{"a", "b"}, reg.Formats())

	_, err = reg.Resolve("xml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	var zero Registry
	zero.Register(stubReader{name: "c"})
	_, err = zero.Resolve("c")
	assert.NoError(t, err)
}

func TestRequestOption(t *testing.T) {
	t.Parallel()

	req := Request{Options: map[string]string{"filename_contains": "AUDIO-", "empty": ""}}
	assert.Equal(t, "AUDIO-", req.Option("filename_contains", ""))
	assert.Equal(t, "x", req.Option("empty", "x"))
	assert.Equal(t, "y", req.Option("missing", "y"))
}
