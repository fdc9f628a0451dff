package calendar

import (
	"fmt"
	"time"

	"github.com/hablullah/go-hijri"
)

// Years covered by the Umm al-Qura tables.
const (
	ummAlQuraFirstYear = 1356
	ummAlQuraLastYear  = 1500
)

// UmmAlQura converts with the Umm al-Qura calendar of Saudi Arabia, the
// calendar the lesson announcements are dated in.
type UmmAlQura struct{}

var _ Converter = UmmAlQura{}

// ToGregorian converts the triple and rejects days the month does not have.
func (UmmAlQura) ToGregorian(h HijriDate) (time.Time, error) {
	if h.Year < ummAlQuraFirstYear || h.Year > ummAlQuraLastYear {
		return time.Time{}, fmt.Errorf("%w: year %d outside umm al-qura tables", ErrInvalidHijri, h.Year)
	}
	if h.Month < 1 || h.Month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidHijri, h.Month)
	}
	if h.Day < 1 || h.Day > 30 {
		return time.Time{}, fmt.Errorf("%w: day %d of month %d", ErrInvalidHijri, h.Day, h.Month)
	}

	uq := hijri.UmmAlQuraDate{Year: int64(h.Year), Month: int64(h.Month), Day: int64(h.Day)}
	g := uq.ToGregorian()

	// A 30th of a 29-day month lands on the 1st of the next one.
	back, err := hijri.CreateUmmAlQuraDate(g)
	if err != nil || back.Year != uq.Year || back.Month != uq.Month || back.Day != uq.Day {
		return time.Time{}, fmt.Errorf("%w: day %d of month %d", ErrInvalidHijri, h.Day, h.Month)
	}
	return time.Date(g.Year(), g.Month(), g.Day(), 0, 0, 0, 0, time.UTC), nil
}
