package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"LectureIndexer/internal/calendar"
	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/extract"
	"LectureIndexer/internal/schedule"
	"LectureIndexer/internal/textnorm"
)

// MatchedBy values that do not come from a matcher pass.
const (
	MatchedExternal = "external"
	MatchedTable    = "table"
	MatchedKhutba   = "khutba"
	MatchedNone     = "not matched"
)

// Doubt notes produced while resolving.
const (
	DoubtAmbiguous      = "ambiguous schedule match"
	DoubtExternalFailed = "external extraction failed"
	DoubtExternalType   = "type suggested by external service"
	doubtUnmatched      = "could not match to schedule"
	doubtExternalOffDay = "external series not scheduled that day"
)

const maxTopicLen = 100

// ResolverConfig carries the run-wide defaults.
type ResolverConfig struct {
	Speaker         string
	Venue           string
	DefaultLocation domain.Location
	// KeywordPass enables the looser second pass for dated records. Undated
	// records always get keyword matching.
	KeywordPass bool
}

// Resolver turns messages into records: field extraction, date resolution and
// schedule matching.
type Resolver struct {
	extractor *extract.Extractor
	matcher   *schedule.Matcher
	cfg       ResolverConfig
	venue     string
	adhoc     map[string]*domain.ScheduleEntry
}

// NewResolver wires the extractor and matcher with run defaults.
func NewResolver(extractor *extract.Extractor, matcher *schedule.Matcher, cfg ResolverConfig) *Resolver {
	if strings.TrimSpace(cfg.Speaker) == "" {
		cfg.Speaker = domain.Unavailable
	}
	return &Resolver{
		extractor: extractor,
		matcher:   matcher,
		cfg:       cfg,
		venue:     textnorm.Normalize(cfg.Venue),
		adhoc:     map[string]*domain.ScheduleEntry{},
	}
}

// Resolve builds the record for one message. It never fails; anything it
// cannot establish is left unavailable and noted as a doubt.
func (r *Resolver) Resolve(msg domain.Message) domain.Record {
	if msg.Prior != nil {
		return r.resolveRow(msg)
	}
	return r.resolveText(msg)
}

func (r *Resolver) resolveText(msg domain.Message) domain.Record {
	rec := r.base(msg)
	in := extract.NewInput(msg.Text)
	f := r.extractor.Extract(in)

	rec.Type = f.Type
	rec.Topic = f.Topic
	rec.Serial = f.Serial
	rec.Author = f.Author
	rec.ExplicitLocation = f.ExplicitLocation
	if f.ExplicitLocation {
		rec.Location = f.Location
	}
	rec.HijriDate = orUnavailable(f.HijriText)
	rec.Doubts.Add(f.Doubts...)
	rec.Date = recordingDate(msg.GregorianDate, f.HijriDate, &rec.Doubts)
	rec.MatchText = matchText(msg.Text)

	if rec.Type == domain.TypeKhutba {
		rec.MatchedBy = MatchedKhutba
		r.categorize(&rec, in)
		return r.finish(rec)
	}

	q := r.query(rec)
	res := r.matcher.Match(q)
	if !res.Matched() && (r.cfg.KeywordPass || !q.HasDay) {
		res = r.matcher.MatchKeywords(q)
	}
	if res.Matched() {
		r.assign(&rec, in, res.Entry, res.Label(q))
		if res.Ambiguous {
			rec.Doubts.Add(DoubtAmbiguous)
		}
		return r.finish(rec)
	}

	rec.MatchedBy = MatchedNone
	if rec.Type == domain.TypeLecture {
		r.categorize(&rec, in)
	} else {
		rec.Type = domain.TypeUnknown
		rec.Doubts.Add(unmatchedDoubt(q))
	}
	return r.finish(rec)
}

// ApplyExternal folds the answer of the fallback service into an unresolved
// record. A suggested series name must canonicalize onto the schedule, and onto
// the recording weekday's entries when the date is known; it is never taken
// verbatim. It reports whether the record was resolved or retyped.
func (r *Resolver) ApplyExternal(rec *domain.Record, msg domain.Message, fields domain.ExternalFields) bool {
	if rec.Resolved() || rec.Type == domain.TypeKhutba {
		return false
	}
	in := extract.NewInput(msg.Text)

	loc := rec.Location
	if !rec.ExplicitLocation && strings.TrimSpace(fields.Location) != "" {
		if parsed, err := domain.ParseLocation(fields.Location); err == nil {
			loc = parsed
		}
	}

	if fields.SeriesName != "" {
		reg := r.matcher.Registry()
		entry, ok := reg.Canonicalize(fields.SeriesName, loc)
		if ok && rec.HasDate() {
			day, suggested := rec.Date.Weekday(), entry.Name
			if entry, ok = reg.CanonicalizeOn(fields.SeriesName, loc, day); !ok {
				rec.Doubts.Add(fmt.Sprintf("%s (%s, %s)", doubtExternalOffDay, suggested, day))
			}
		}
		if ok {
			r.assign(rec, in, entry, MatchedExternal)
			if !rec.Serial.Known() {
				if serial := parseSerial(fields.Serial); serial.Known() && serial.Number > 0 {
					rec.Serial = serial
					rec.Doubts = rec.Doubts.Drop(func(n string) bool { return n == extract.DoubtNoSerial })
				}
			}
			*rec = r.finish(*rec)
			return true
		}
	}

	switch t := domain.ParseLectureType(fields.Type); t {
	case domain.TypeKhutba, domain.TypeLecture:
		rec.Type = t
		rec.MatchedBy = MatchedExternal
		rec.Doubts = rec.Doubts.Drop(isUnmatchedDoubt)
		rec.Doubts.Add(DoubtExternalType)
		if rec.Topic == domain.Unavailable && strings.TrimSpace(fields.Topic) != "" {
			rec.Topic = textnorm.Truncate(strings.TrimSpace(fields.Topic), maxTopicLen)
			rec.Doubts = rec.Doubts.Drop(func(n string) bool { return n == extract.DoubtNoTopic })
		}
		r.categorize(rec, in)
		*rec = r.finish(*rec)
		return true
	}
	return false
}

// assign attaches a schedule entry and fills the fields that depend on it.
func (r *Resolver) assign(rec *domain.Record, in extract.Input, entry *domain.ScheduleEntry, matchedBy string) {
	promoted := rec.Type != domain.TypeSeries
	rec.Type = domain.TypeSeries
	rec.Series = entry
	rec.MatchedBy = matchedBy
	rec.Topic = domain.Unavailable
	rec.Doubts = rec.Doubts.Drop(func(n string) bool {
		return n == extract.DoubtTypeDefaulted || n == extract.DoubtNoTopic || isUnmatchedDoubt(n)
	})

	if promoted {
		serial, d := extract.Serial(in)
		rec.Serial = serial
		rec.Doubts.Add(d...)
		if author, ok := extract.Author(in); ok {
			rec.Author = author
		}
	}
	if rec.Author == "" || rec.Author == domain.Unavailable {
		rec.Author = entry.Author
	}
	if rec.Author == domain.Unavailable {
		rec.Doubts.Add(extract.DoubtNoAuthor)
	}

	if rec.ExplicitLocation && rec.Location != entry.Location {
		rec.Doubts.Add(fmt.Sprintf("location %s in text conflicts with schedule (%s)", rec.Location, entry.Location))
	} else {
		rec.Location = entry.Location
	}

	rec.SubTopic = extract.SubTopic(in, domain.TypeSeries, append([]string{entry.Name}, entry.Aliases...))
	category, d := extract.Category(in, domain.TypeSeries, "", entry)
	rec.Category = category
	rec.Doubts.Add(d...)
}

func (r *Resolver) categorize(rec *domain.Record, in extract.Input) {
	category, d := extract.Category(in, rec.Type, rec.Topic, nil)
	rec.Category = category
	rec.Doubts.Add(d...)
}

// resolveRow rebuilds a record from a previously written table row. The row's
// series name is trusted; names missing from the schedule become ad-hoc entries.
func (r *Resolver) resolveRow(msg domain.Message) domain.Record {
	row := msg.Prior
	rec := r.base(msg)
	rec.MatchedBy = MatchedTable
	rec.Doubts = domain.ParseDoubts(row.Doubts)
	rec.Type = domain.ParseLectureType(row.Type)
	rec.Topic = orUnavailable(row.Topic)
	rec.SubTopic = orUnavailable(row.SubTopic)
	rec.Author = orUnavailable(row.Author)
	rec.Category = orUnavailable(row.Category)
	rec.HijriDate = orUnavailable(row.HijriDate)
	rec.Serial = parseSerial(row.Serial)
	if speaker := orUnavailable(row.Speaker); speaker != domain.Unavailable {
		rec.Speaker = speaker
	}
	rec.Location, rec.ExplicitLocation = r.rowLocation(row.Location, &rec.Doubts)

	var hijri time.Time
	if rec.HijriDate != domain.Unavailable {
		hijri, _ = r.extractor.ConvertHijri(rec.HijriDate)
	}
	rec.Date = recordingDate(msg.GregorianDate, hijri, &rec.Doubts)
	if rec.HasDate() {
		rec.Doubts = rec.Doubts.Drop(func(n string) bool { return n == extract.DoubtNoDate })
	}

	if name := orUnavailable(row.SeriesName); name != domain.Unavailable {
		rec.Series = r.seriesFor(name, rec)
		rec.Type = domain.TypeSeries
		rec.Doubts = rec.Doubts.Drop(isUnmatchedDoubt)
		if rec.Author == domain.Unavailable {
			rec.Author = rec.Series.Author
		}
	} else if rec.Type == domain.TypeSeries || rec.Type == domain.TypeUnknown {
		rec.Type = domain.TypeUnknown
		rec.Doubts.Add(unmatchedDoubt(r.query(rec)))
	}
	return r.finish(rec)
}

func (r *Resolver) seriesFor(name string, rec domain.Record) *domain.ScheduleEntry {
	if entry, ok := r.matcher.Registry().Lookup(name, rec.Location); ok {
		return entry
	}
	key := textnorm.Normalize(name) + "|" + rec.Location.String()
	if entry, ok := r.adhoc[key]; ok {
		return entry
	}
	entry := &domain.ScheduleEntry{
		Name:     name,
		Author:   rec.Author,
		Category: rec.Category,
		Location: rec.Location,
		Adhoc:    true,
	}
	r.adhoc[key] = entry
	return entry
}

func (r *Resolver) rowLocation(value string, doubts *domain.Doubts) (domain.Location, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == domain.Unavailable {
		return r.cfg.DefaultLocation, false
	}
	if loc, err := domain.ParseLocation(value); err == nil {
		return loc, true
	}
	if r.venue != "" && textnorm.Contains(value, r.venue) {
		return domain.OnSite, true
	}
	doubts.Add(fmt.Sprintf("location %q unrecognized, defaulted to %s", value, r.cfg.DefaultLocation))
	return r.cfg.DefaultLocation, false
}

func (r *Resolver) base(msg domain.Message) domain.Record {
	return domain.Record{
		Index:         msg.Index,
		FileName:      orUnavailable(msg.FileName),
		ClipLength:    orUnavailable(msg.ClipLength),
		GregorianText: orUnavailable(msg.GregorianDate),
		Speaker:       r.cfg.Speaker,
		Location:      r.cfg.DefaultLocation,
		Type:          domain.TypeUnknown,
		Topic:         domain.Unavailable,
		SubTopic:      domain.Unavailable,
		Serial:        domain.Serial{Text: domain.Unavailable},
		Author:        domain.Unavailable,
		Category:      domain.Unavailable,
		HijriDate:     domain.Unavailable,
	}
}

func (r *Resolver) query(rec domain.Record) schedule.Query {
	day, hasDay := rec.Weekday()
	return schedule.Query{
		Text:             rec.MatchText,
		Day:              day,
		HasDay:           hasDay,
		Location:         rec.Location,
		ExplicitLocation: rec.ExplicitLocation,
	}
}

// finish enforces the per-type field rules.
func (r *Resolver) finish(rec domain.Record) domain.Record {
	if rec.Type == domain.TypeSeries {
		rec.Topic = domain.Unavailable
	} else {
		rec.Series = nil
		rec.SubTopic = domain.Unavailable
	}
	if rec.Type == domain.TypeKhutba {
		if day, ok := rec.Weekday(); ok && day != time.Friday {
			rec.Doubts.Add(extract.DoubtNotFriday)
		}
	}
	return rec
}

// recordingDate prefers the exported Gregorian date over the converted Hijri one.
func recordingDate(gregorian string, hijri time.Time, doubts *domain.Doubts) time.Time {
	if date, ok := calendar.ParseGregorian(gregorian); ok {
		return date
	}
	if !hijri.IsZero() {
		return hijri
	}
	doubts.Add(extract.DoubtNoDate)
	return time.Time{}
}

func unmatchedDoubt(q schedule.Query) string {
	day := "unknown"
	if q.HasDay {
		day = q.Day.String()
	}
	return fmt.Sprintf("%s (day: %s, location: %s)", doubtUnmatched, day, q.Location)
}

func isUnmatchedDoubt(note string) bool {
	return strings.HasPrefix(note, doubtUnmatched)
}

// matchText splits hashtag words so "#الأفنان_الندية" reads as the series name.
func matchText(text string) string {
	return textnorm.Normalize(strings.ReplaceAll(text, "_", " "))
}

func parseSerial(text string) domain.Serial {
	text = strings.TrimSpace(text)
	if text == "" || text == domain.Unavailable {
		return domain.Serial{Text: domain.Unavailable}
	}
	if n, err := strconv.Atoi(textnorm.Digits(text)); err == nil {
		return domain.Serial{Text: textnorm.Digits(text), Number: n}
	}
	if value, consumed := extract.ParseOrdinal(strings.Fields(textnorm.Normalize(text))); consumed > 0 {
		return domain.Serial{Text: text, Number: value}
	}
	return domain.Serial{Text: text}
}

func orUnavailable(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.Unavailable
	}
	return value
}
