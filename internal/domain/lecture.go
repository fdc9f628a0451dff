package domain

import (
	"fmt"
	"strings"
	"time"
)

// Unavailable is the sentinel stored in text fields that could not be extracted.
const Unavailable = "Not Available"

// Message is a raw export entry as delivered by an input source.
type Message struct {
	Index         int
	Text          string
	FileName      string
	ClipLength    string
	GregorianDate string
	Source        string
	// Prior is set when the message was re-ingested from a previously written record table.
	Prior *TableRow
}

// TableRow is one row of a previously written record table, kept as text.
type TableRow struct {
	SeriesName string
	Type       string
	Topic      string
	SubTopic   string
	Serial     string
	Author     string
	Location   string
	Speaker    string
	HijriDate  string
	Category   string
	Doubts     string
}

// LectureType classifies a recording.
type LectureType string

const (
	TypeKhutba  LectureType = "Khutba"
	TypeLecture LectureType = "Lecture"
	TypeSeries  LectureType = "Series"
	TypeUnknown LectureType = "Unknown"
)

// ParseLectureType maps table values back onto the known types.
func ParseLectureType(value string) LectureType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "khutba":
		return TypeKhutba
	case "lecture":
		return TypeLecture
	case "series":
		return TypeSeries
	default:
		return TypeUnknown
	}
}

// Location tells whether a lesson was given at the venue or broadcast online.
type Location int

const (
	OnSite Location = iota
	Online
)

// String returns the canonical lowercase name used in configuration files.
func (l Location) String() string {
	if l == Online {
		return "online"
	}
	return "onsite"
}

// ParseLocation accepts the canonical names plus the labels found in exported tables.
func ParseLocation(value string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "online", "عن بعد", "عن بُعد":
		return Online, nil
	case "onsite", "on-site", "masjid", "":
		return OnSite, nil
	default:
		return OnSite, fmt.Errorf("unknown location %q", value)
	}
}

// UnmarshalText lets YAML and env decoders read locations by name.
func (l *Location) UnmarshalText(text []byte) error {
	parsed, err := ParseLocation(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalText mirrors UnmarshalText.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Serial is a lesson number as written in the message plus its numeric value.
type Serial struct {
	Text   string
	Number int
}

// Known reports whether a serial was recovered.
func (s Serial) Known() bool {
	return s.Text != "" && s.Text != Unavailable
}

// String returns the display text or the unavailable sentinel.
func (s Serial) String() string {
	if !s.Known() {
		return Unavailable
	}
	return s.Text
}

// Record is the resolved view of one message.
type Record struct {
	Index      int
	FileName   string
	ClipLength string

	Type   LectureType
	Series *ScheduleEntry

	Topic    string
	SubTopic string
	Serial   Serial
	Author   string
	Category string
	Speaker  string

	Location         Location
	ExplicitLocation bool

	HijriDate     string
	GregorianText string
	Date          time.Time

	MatchedBy string
	Doubts    Doubts

	// MatchText is the normalized text the schedule matcher scores against.
	MatchText string
}

// HasDate reports whether a recording date was recovered.
func (r Record) HasDate() bool {
	return !r.Date.IsZero()
}

// Weekday returns the recording weekday when the date is known.
func (r Record) Weekday() (time.Weekday, bool) {
	if !r.HasDate() {
		return time.Sunday, false
	}
	return r.Date.Weekday(), true
}

// SeriesName returns the canonical series name or the unavailable sentinel.
func (r Record) SeriesName() string {
	if r.Series == nil {
		return Unavailable
	}
	return r.Series.Name
}

// Resolved reports whether the record has a series identity.
func (r Record) Resolved() bool {
	return r.Series != nil
}
