package extract

import (
	"strings"
	"time"

	"LectureIndexer/internal/calendar"
	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

// Doubt notes produced by the extractors.
const (
	DoubtTypeDefaulted = "type unclear, defaulted to series"
	DoubtNoTopic       = "topic not clearly identified"
	DoubtNoSerial      = "serial number not found"
	DoubtNoAuthor      = "original author not found"
	DoubtNoHijri       = "hijri date not found"
	DoubtBadHijri      = "hijri date could not be converted"
	DoubtNoDate        = "recording date unavailable"
	DoubtNotFriday     = "khutba not on friday"
	DoubtNoCategory    = "category unavailable"
)

// Input holds a message body in the shapes the extractors need.
type Input struct {
	// Raw is the text exactly as exported.
	Raw string
	// Text is the whole body normalized onto one line.
	Text string
	// Lines are the normalized non-empty lines of Raw.
	Lines []string
}

// NewInput normalizes a raw message body once for every extractor.
func NewInput(raw string) Input {
	in := Input{Raw: raw, Text: textnorm.Normalize(raw)}
	for _, line := range strings.Split(raw, "\n") {
		if normalized := textnorm.Normalize(line); normalized != "" {
			in.Lines = append(in.Lines, normalized)
		}
	}
	return in
}

// Fields are the values recovered from the text before schedule matching.
type Fields struct {
	Type             domain.LectureType
	Topic            string
	Serial           domain.Serial
	Author           string
	Location         domain.Location
	ExplicitLocation bool
	HijriText        string
	HijriDate        time.Time
	Doubts           domain.Doubts
}

// Extractor runs every pre-match field extractor over a message.
type Extractor struct {
	venue     string
	converter calendar.Converter
}

// New builds an extractor; venue is the on-site location name that marks a message as on-site.
func New(venue string, converter calendar.Converter) *Extractor {
	if converter == nil {
		converter = calendar.UmmAlQura{}
	}
	return &Extractor{venue: textnorm.Normalize(venue), converter: converter}
}

// Extract applies the extractors in dependency order.
func (e *Extractor) Extract(in Input) Fields {
	var f Fields

	var d domain.Doubts
	f.Type, d = Type(in)
	f.Doubts.Add(d...)

	f.Topic, d = Topic(in, f.Type)
	f.Doubts.Add(d...)

	if f.Type == domain.TypeSeries {
		f.Serial, d = Serial(in)
		f.Doubts.Add(d...)
		f.Author, _ = Author(in)
	} else {
		f.Serial = domain.Serial{Text: domain.Unavailable}
		f.Author = domain.Unavailable
	}

	f.Location, f.ExplicitLocation = Location(in, e.venue)

	var hijri calendar.HijriDate
	var found bool
	f.HijriText, hijri, found, d = HijriDate(in)
	f.Doubts.Add(d...)
	if found {
		if date, err := e.converter.ToGregorian(hijri); err == nil {
			f.HijriDate = date
		} else {
			f.Doubts.Add(DoubtBadHijri)
		}
	}
	return f
}

// ConvertHijri converts a standalone Hijri date text, such as the date column of a record table.
func (e *Extractor) ConvertHijri(text string) (time.Time, bool) {
	_, hijri, found, _ := HijriDate(NewInput(text))
	if !found {
		return time.Time{}, false
	}
	date, err := e.converter.ToGregorian(hijri)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
