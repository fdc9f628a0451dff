package schedule

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"LectureIndexer/internal/domain"
)

//go:embed default_schedule.yaml
var defaultSchedule []byte

type fileSchedule struct {
	Entries []fileEntry `yaml:"entries"`
}

type fileEntry struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Keywords []string `yaml:"keywords"`
	Author   string   `yaml:"author"`
	Category string   `yaml:"category"`
	Location string   `yaml:"location"`
	Days     []string `yaml:"days"`
}

// Default returns the built-in weekly schedule.
func Default() (*Registry, error) {
	return Parse(defaultSchedule)
}

// LoadFile reads a schedule from a YAML file; an empty path yields the built-in schedule.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule %s: %w", path, err)
	}
	reg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes a YAML schedule document.
func Parse(raw []byte) (*Registry, error) {
	var doc fileSchedule
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	entries := make([]domain.ScheduleEntry, 0, len(doc.Entries))
	for i, fe := range doc.Entries {
		loc, err := domain.ParseLocation(fe.Location)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidEntry, i, err)
		}
		entry := domain.ScheduleEntry{
			Name:     fe.Name,
			Aliases:  fe.Aliases,
			Keywords: fe.Keywords,
			Author:   fe.Author,
			Category: fe.Category,
			Location: loc,
		}
		for _, name := range fe.Days {
			day, ok := domain.ParseWeekday(name)
			if !ok {
				return nil, fmt.Errorf("%w: entry %d: unknown day %q", ErrInvalidEntry, i, name)
			}
			entry.Days = append(entry.Days, day)
		}
		entries = append(entries, entry)
	}
	return New(entries)
}
