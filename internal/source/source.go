package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"LectureIndexer/internal/domain"
)

// ErrUnknownFormat is returned for an input format with no registered reader.
var ErrUnknownFormat = errors.New("unknown input format")

// Request carries everything a reader needs to load one input.
type Request struct {
	Name    string
	Path    string
	Options map[string]string
}

// Option returns a reader option or fallback when it is unset.
func (r Request) Option(key, fallback string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Reader loads messages from one input format (Telegram HTML export, JSON, CSV).
type Reader interface {
	Name() string
	Read(ctx context.Context, req Request) ([]domain.Message, error)
}

// Registry keeps a mapping from format names to their readers.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{readers: map[string]Reader{}}
}

// Register adds or replaces a reader.
func (r *Registry) Register(reader Reader) {
	if r.readers == nil {
		r.readers = map[string]Reader{}
	}
	r.readers[reader.Name()] = reader
}

// Resolve returns the reader for a format.
func (r *Registry) Resolve(format string) (Reader, error) {
	if reader, ok := r.readers[format]; ok {
		return reader, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.readers))
	for name := range r.readers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
