package domain

import "strings"

// Doubts is an ordered set of diagnostic notes attached to a record.
type Doubts []string

// Add appends a note unless it is empty or already present.
func (d *Doubts) Add(notes ...string) {
	for _, note := range notes {
		note = strings.TrimSpace(note)
		if note == "" || note == "none" || d.Has(note) {
			continue
		}
		*d = append(*d, note)
	}
}

// Has reports whether the note is already recorded.
func (d Doubts) Has(note string) bool {
	for _, existing := range d {
		if existing == note {
			return true
		}
	}
	return false
}

// Empty reports a high-confidence record.
func (d Doubts) Empty() bool {
	return len(d) == 0
}

// String joins the notes the way the record table stores them.
func (d Doubts) String() string {
	if len(d) == 0 {
		return "none"
	}
	return strings.Join(d, "; ")
}

// ParseDoubts reverses String.
func ParseDoubts(value string) Doubts {
	var d Doubts
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return d
	}
	d.Add(strings.Split(value, ";")...)
	return d
}

// Drop returns the notes for which match is false.
func (d Doubts) Drop(match func(note string) bool) Doubts {
	var kept Doubts
	for _, note := range d {
		if !match(note) {
			kept = append(kept, note)
		}
	}
	return kept
}
