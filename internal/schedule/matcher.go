package schedule

import (
	"strings"
	"time"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

// Default acceptance bars, in characters of matched alias text.
const (
	DefaultMinScore      = 5
	DefaultLooseMinScore = 3
)

// Pass names which matching stage produced a result.
type Pass int

const (
	PassNone Pass = iota
	PassSchedule
	PassKeywords
)

// Query is what the matcher knows about one message.
type Query struct {
	// Text must already be normalized.
	Text             string
	Day              time.Weekday
	HasDay           bool
	Location         domain.Location
	ExplicitLocation bool
}

// Result is the outcome of a single matching pass.
type Result struct {
	Entry *domain.ScheduleEntry
	Score int
	Pass  Pass
	// Ambiguous is set when differently named entries tied for the best score.
	Ambiguous bool
}

// Matched reports whether an entry was selected.
func (r Result) Matched() bool {
	return r.Entry != nil
}

// Options tunes the acceptance bars.
type Options struct {
	MinScore      int
	LooseMinScore int
}

// Matcher scores registry entries against message text.
type Matcher struct {
	registry *Registry
	opts     Options
}

// NewMatcher builds a matcher; zero options fall back to the defaults.
func NewMatcher(reg *Registry, opts Options) *Matcher {
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}
	if opts.LooseMinScore <= 0 {
		opts.LooseMinScore = DefaultLooseMinScore
	}
	return &Matcher{registry: reg, opts: opts}
}

// Registry exposes the schedule the matcher consults.
func (m *Matcher) Registry() *Registry {
	return m.registry
}

// Match runs the schedule pass: the day's entries, narrowed to the detected
// location when the text states one, scored by the total length of the names
// and aliases found in the text. Without a day nothing is matched here.
func (m *Matcher) Match(q Query) Result {
	if !q.HasDay {
		return Result{}
	}
	return m.within(m.registry.EntriesForDay(q.Day), q, PassSchedule, m.opts.MinScore, false)
}

// MatchKeywords runs the looser pass for records the schedule pass left
// unresolved. Topical keywords count as well as aliases. A known day still
// restricts candidates to that day; only an unknown day opens the whole
// registry.
func (m *Matcher) MatchKeywords(q Query) Result {
	var pool []*domain.ScheduleEntry
	if q.HasDay {
		pool = m.registry.EntriesForDay(q.Day)
	} else {
		pool = m.registry.All()
	}
	return m.within(pool, q, PassKeywords, m.opts.LooseMinScore, true)
}

// within scores the location-filtered pool first and, when that finds nothing,
// the whole pool: the day outranks the location when the two disagree.
func (m *Matcher) within(pool []*domain.ScheduleEntry, q Query, pass Pass, minScore int, withKeywords bool) Result {
	filtered := filterLocation(pool, q)
	res := m.pick(filtered, q, pass, minScore, withKeywords)
	if !res.Matched() && len(filtered) < len(pool) {
		res = m.pick(pool, q, pass, minScore, withKeywords)
	}
	return res
}

// Resolve runs both passes in order.
func (m *Matcher) Resolve(q Query) Result {
	if res := m.Match(q); res.Matched() {
		return res
	}
	return m.MatchKeywords(q)
}

func (m *Matcher) pick(candidates []*domain.ScheduleEntry, q Query, pass Pass, minScore int, withKeywords bool) Result {
	var (
		best      *domain.ScheduleEntry
		bestScore int
		tied      []*domain.ScheduleEntry
	)
	for _, e := range candidates {
		score := Score(e, q.Text, withKeywords)
		switch {
		case score > bestScore:
			best, bestScore = e, score
			tied = []*domain.ScheduleEntry{e}
		case score == bestScore && score > 0:
			tied = append(tied, e)
		}
	}
	if best == nil || bestScore < minScore {
		return Result{}
	}

	res := Result{Entry: best, Score: bestScore, Pass: pass}
	if len(tied) > 1 {
		tied = breakTies(tied, q)
		res.Entry = tied[0]
		for _, e := range tied[1:] {
			if e.Name != tied[0].Name {
				res.Ambiguous = true
				break
			}
		}
	}
	return res
}

// Score sums the rune lengths of every distinct name and alias contained in
// text; keywords are included when withKeywords is set.
func Score(e *domain.ScheduleEntry, text string, withKeywords bool) int {
	terms := names(e)
	if withKeywords {
		terms = append(terms, keywords(e)...)
	}
	seen := make(map[string]bool, len(terms))
	score := 0
	for _, term := range terms {
		if seen[term] {
			continue
		}
		seen[term] = true
		if strings.Contains(text, term) {
			score += textnorm.RuneLen(term)
		}
	}
	return score
}

// filterLocation keeps entries at the stated location, falling back to all
// candidates when none match or the text does not state a location.
func filterLocation(entries []*domain.ScheduleEntry, q Query) []*domain.ScheduleEntry {
	if !q.ExplicitLocation {
		return entries
	}
	var kept []*domain.ScheduleEntry
	for _, e := range entries {
		if e.Location == q.Location {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return entries
	}
	return kept
}

// breakTies narrows equally scored entries by location then weekday
// containment; remaining entries keep declaration order.
func breakTies(tied []*domain.ScheduleEntry, q Query) []*domain.ScheduleEntry {
	if q.ExplicitLocation {
		tied = preferring(tied, func(e *domain.ScheduleEntry) bool { return e.Location == q.Location })
	}
	if q.HasDay {
		tied = preferring(tied, func(e *domain.ScheduleEntry) bool { return e.RecursOn(q.Day) })
	}
	return tied
}

func preferring(entries []*domain.ScheduleEntry, keep func(*domain.ScheduleEntry) bool) []*domain.ScheduleEntry {
	var kept []*domain.ScheduleEntry
	for _, e := range entries {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return entries
	}
	return kept
}

// Label renders the MatchedBy value for a result.
func (r Result) Label(q Query) string {
	switch r.Pass {
	case PassSchedule:
		return "schedule (" + q.Day.String() + ")"
	case PassKeywords:
		if q.HasDay {
			return "keywords (" + q.Day.String() + ")"
		}
		return "keywords"
	default:
		return "not matched"
	}
}
