package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

// ErrInvalidEntry reports a schedule entry that cannot take part in matching.
var ErrInvalidEntry = errors.New("invalid schedule entry")

// Registry is the read-only weekly schedule.
type Registry struct {
	entries []*domain.ScheduleEntry
	byDay   map[time.Weekday][]*domain.ScheduleEntry
}

// New validates entries and indexes them by weekday, keeping declaration order.
func New(entries []domain.ScheduleEntry) (*Registry, error) {
	r := &Registry{byDay: map[time.Weekday][]*domain.ScheduleEntry{}}
	seen := map[string]bool{}
	for i := range entries {
		entry := entries[i]
		entry.Name = strings.TrimSpace(entry.Name)
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrInvalidEntry, i)
		}
		if len(entry.Days) == 0 {
			return nil, fmt.Errorf("%w: %s has no days", ErrInvalidEntry, entry.Name)
		}
		for _, day := range entry.Days {
			key := fmt.Sprintf("%s|%s|%d", textnorm.Normalize(entry.Name), entry.Location, day)
			if seen[key] {
				return nil, fmt.Errorf("%w: %s (%s) listed twice on %s", ErrInvalidEntry, entry.Name, entry.Location, day)
			}
			seen[key] = true
		}
		if entry.Author == "" {
			entry.Author = domain.Unavailable
		}
		e := &entry
		r.entries = append(r.entries, e)
		for _, day := range entry.Days {
			r.byDay[day] = append(r.byDay[day], e)
		}
	}
	return r, nil
}

// EntriesForDay returns the entries scheduled on day in declaration order.
func (r *Registry) EntriesForDay(day time.Weekday) []*domain.ScheduleEntry {
	return r.byDay[day]
}

// All returns every entry in declaration order.
func (r *Registry) All() []*domain.ScheduleEntry {
	return r.entries
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Lookup finds an entry by canonical name or alias, preferring the given location.
func (r *Registry) Lookup(name string, loc domain.Location) (*domain.ScheduleEntry, bool) {
	return lookupIn(r.entries, name, loc)
}

// Canonicalize maps a free-form series name, such as one suggested by an
// external service, onto a registry entry. Exact names and aliases win, then
// the longest name or alias contained in the text, then a canonical name that
// contains the text.
func (r *Registry) Canonicalize(text string, loc domain.Location) (*domain.ScheduleEntry, bool) {
	return canonicalizeIn(r.entries, text, loc)
}

// CanonicalizeOn is Canonicalize restricted to the entries scheduled on day.
// A day without entries never yields one.
func (r *Registry) CanonicalizeOn(text string, loc domain.Location, day time.Weekday) (*domain.ScheduleEntry, bool) {
	return canonicalizeIn(r.EntriesForDay(day), text, loc)
}

func lookupIn(pool []*domain.ScheduleEntry, name string, loc domain.Location) (*domain.ScheduleEntry, bool) {
	key := textnorm.Normalize(name)
	if key == "" || key == textnorm.Normalize(domain.Unavailable) {
		return nil, false
	}
	var fallback *domain.ScheduleEntry
	for _, e := range pool {
		if !entryNamed(e, key) {
			continue
		}
		if e.Location == loc {
			return e, true
		}
		if fallback == nil {
			fallback = e
		}
	}
	return fallback, fallback != nil
}

func canonicalizeIn(pool []*domain.ScheduleEntry, text string, loc domain.Location) (*domain.ScheduleEntry, bool) {
	if e, ok := lookupIn(pool, text, loc); ok {
		return e, true
	}
	key := textnorm.Normalize(text)
	if textnorm.RuneLen(key) < 4 {
		return nil, false
	}

	var best *domain.ScheduleEntry
	bestLen := 0
	for _, e := range pool {
		for _, name := range names(e) {
			n := textnorm.RuneLen(name)
			if n > bestLen && strings.Contains(key, name) {
				best, bestLen = e, n
			}
		}
	}
	if best != nil {
		return preferLocation(pool, best, loc), true
	}

	for _, e := range pool {
		if strings.Contains(textnorm.Normalize(e.Name), key) {
			return preferLocation(pool, e, loc), true
		}
	}
	return nil, false
}

// Names returns the distinct canonical names in declaration order.
func (r *Registry) Names() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range r.entries {
		if !seen[e.Name] {
			seen[e.Name] = true
			out = append(out, e.Name)
		}
	}
	return out
}

// Weekdays returns the days that have at least one entry.
func (r *Registry) Weekdays() []time.Weekday {
	days := make([]time.Weekday, 0, len(r.byDay))
	for day := range r.byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

func preferLocation(pool []*domain.ScheduleEntry, e *domain.ScheduleEntry, loc domain.Location) *domain.ScheduleEntry {
	if e.Location == loc {
		return e
	}
	if other, ok := lookupIn(pool, e.Name, loc); ok {
		return other
	}
	return e
}

func entryNamed(e *domain.ScheduleEntry, key string) bool {
	for _, name := range names(e) {
		if name == key {
			return true
		}
	}
	return false
}

// names returns the normalized canonical name followed by the aliases.
func names(e *domain.ScheduleEntry) []string {
	out := make([]string, 0, 1+len(e.Aliases))
	if n := textnorm.Normalize(e.Name); n != "" {
		out = append(out, n)
	}
	for _, alias := range e.Aliases {
		if n := textnorm.Normalize(alias); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// keywords returns the normalized topical keywords.
func keywords(e *domain.ScheduleEntry) []string {
	out := make([]string, 0, len(e.Keywords))
	for _, kw := range e.Keywords {
		if n := textnorm.Normalize(kw); n != "" {
			out = append(out, n)
		}
	}
	return out
}
