package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidHijri marks a day/month/year triple that does not exist.
var ErrInvalidHijri = errors.New("invalid hijri date")

const (
	islamicEpochJDN = 1948440
	unixEpochJDN    = 2440588
)

// HijriDate is a day/month/year triple in the Islamic calendar.
type HijriDate struct {
	Day   int
	Month int
	Year  int
}

// String renders the triple as D/M/YYYY.
func (h HijriDate) String() string {
	return fmt.Sprintf("%d/%d/%d", h.Day, h.Month, h.Year)
}

// Converter turns Hijri triples into Gregorian dates.
type Converter interface {
	ToGregorian(h HijriDate) (time.Time, error)
}

// Tabular implements the arithmetic (Kuwaiti) Islamic calendar. It can differ
// from Umm al-Qura by a day and is only used when configured explicitly.
type Tabular struct{}

var _ Converter = Tabular{}

// ToGregorian validates the triple and converts it through the Julian day number.
func (Tabular) ToGregorian(h HijriDate) (time.Time, error) {
	if err := validate(h); err != nil {
		return time.Time{}, err
	}
	jdn := h.Day + (59*(h.Month-1)+1)/2 + (h.Year-1)*354 + (3+11*h.Year)/30 + islamicEpochJDN - 1
	return time.Unix(int64(jdn-unixEpochJDN)*86400, 0).UTC(), nil
}

// ParseHijri converts a triple with the Umm al-Qura calendar.
func ParseHijri(day, month, year int) (time.Time, error) {
	return UmmAlQura{}.ToGregorian(HijriDate{Day: day, Month: month, Year: year})
}

// Converter names accepted by ConverterByName.
const (
	CalendarUmmAlQura = "ummalqura"
	CalendarTabular   = "tabular"
)

// ConverterByName returns the converter for a configured calendar name; empty
// selects Umm al-Qura.
func ConverterByName(name string) (Converter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CalendarUmmAlQura, "umm-al-qura":
		return UmmAlQura{}, nil
	case CalendarTabular:
		return Tabular{}, nil
	default:
		return nil, fmt.Errorf("unknown hijri calendar %q", name)
	}
}

// IsLeapYear reports whether Dhu al-Hijja has 30 days in the year.
func IsLeapYear(year int) bool {
	return (14+11*year)%30 < 11
}

// MonthLength returns the number of days in a tabular month. Umm al-Qura
// months have 29 or 30 days independently of this rule.
func MonthLength(month, year int) int {
	if month%2 == 1 || (month == 12 && IsLeapYear(year)) {
		return 30
	}
	return 29
}

func validate(h HijriDate) error {
	if h.Year < 1 || h.Year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidHijri, h.Year)
	}
	if h.Month < 1 || h.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidHijri, h.Month)
	}
	if h.Day < 1 || h.Day > MonthLength(h.Month, h.Year) {
		return fmt.Errorf("%w: day %d of month %d", ErrInvalidHijri, h.Day, h.Month)
	}
	return nil
}
