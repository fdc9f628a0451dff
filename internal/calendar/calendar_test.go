package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseGregorian(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{in: "05.01.2024", want: date(2024, time.January, 5), ok: true},
		{in: "5/1/2024", want: date(2024, time.January, 5), ok: true},
		{in: "2024-01-05", want: date(2024, time.January, 5), ok: true},
		{in: "05.01.2024 18:32:10 UTC+03:00", want: date(2024, time.January, 5), ok: true},
		{in: "٠٥/٠١/٢٠٢٤", want: date(2024, time.January, 5), ok: true},
		{in: "31.02.2024"},
		{in: "yesterday"},
		{in: ""},
	}

	for _, tc := range cases {
		got, ok := ParseGregorian(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.True(t, tc.want.Equal(got), "input %q: got %v", tc.in, got)
		}
	}
}

func TestParseHijri(t *testing.T) {
	t.Parallel()

	cases := []struct {
		day, month, year int
		want             time.Time
	}{
		{1, 9, 1445, date(2024, time.March, 11)},
		{1, 10, 1445, date(2024, time.April, 10)},
		{1, 12, 1446, date(2025, time.May, 28)},
		{1, 1, 1447, date(2025, time.June, 26)},
	}
	for _, tc := range cases {
		got, err := ParseHijri(tc.day, tc.month, tc.year)
		require.NoError(t, err)
		assert.Equal(t, FormatDate(tc.want), FormatDate(got), "%d/%d/%d", tc.day, tc.month, tc.year)
	}
}

func TestUmmAlQuraMonthsAreContiguous(t *testing.T) {
	t.Parallel()

	conv := UmmAlQura{}
	evenThirty := false
	for year := 1440; year <= 1447; year++ {
		for month := 1; month <= 12; month++ {
			first, err := conv.ToGregorian(HijriDate{Day: 1, Month: month, Year: year})
			require.NoError(t, err)

			length := 29
			if _, err := conv.ToGregorian(HijriDate{Day: 30, Month: month, Year: year}); err == nil {
				length = 30
			} else {
				assert.True(t, errors.Is(err, ErrInvalidHijri))
			}
			if length == 30 && month%2 == 0 {
				evenThirty = true
			}

			next := HijriDate{Day: 1, Month: month + 1, Year: year}
			if month == 12 {
				next = HijriDate{Day: 1, Month: 1, Year: year + 1}
			}
			nextFirst, err := conv.ToGregorian(next)
			require.NoError(t, err)
			assert.Equal(t, length, DaysBetween(first, nextFirst), "%d/%d", month, year)
		}
	}
	assert.True(t, evenThirty, "some even month should have 30 days")
}

func TestParseHijriRejectsInvalidTriples(t *testing.T) {
	t.Parallel()

	invalid := []HijriDate{
		{Day: 0, Month: 1, Year: 1446},
		{Day: 1, Month: 13, Year: 1446},
		{Day: 31, Month: 2, Year: 1446},
		{Day: 1, Month: 1, Year: 1300},
		{Day: 1, Month: 1, Year: 0},
	}
	for _, h := range invalid {
		_, err := ParseHijri(h.Day, h.Month, h.Year)
		require.Error(t, err, h.String())
		assert.True(t, errors.Is(err, ErrInvalidHijri))
	}
}

func TestTabular(t *testing.T) {
	t.Parallel()

	got, err := Tabular{}.ToGregorian(HijriDate{Day: 1, Month: 1, Year: 1447})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-27", FormatDate(got))

	got, err = Tabular{}.ToGregorian(HijriDate{Day: 30, Month: 12, Year: 1445})
	require.NoError(t, err)
	assert.Equal(t, "2024-07-07", FormatDate(got))

	for _, h := range []HijriDate{{Day: 30, Month: 2, Year: 1446}, {Day: 30, Month: 12, Year: 1446}} {
		_, err := Tabular{}.ToGregorian(h)
		assert.True(t, errors.Is(err, ErrInvalidHijri), h.String())
	}
}

func TestConverterByName(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Converter{"": UmmAlQura{}, "UmmAlQura": UmmAlQura{}, "tabular": Tabular{}} {
		got, err := ConverterByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ConverterByName("julian")
	assert.Error(t, err)
}

func TestDayHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Friday, DayOfWeek(date(2024, time.January, 5)))
	assert.Equal(t, 35, DaysBetween(date(2024, time.January, 1), date(2024, time.February, 5)))
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.True(t, IsLeapYear(1445))
	assert.False(t, IsLeapYear(1446))
	assert.Equal(t, 30, MonthLength(1, 1446))
	assert.Equal(t, 29, MonthLength(2, 1446))
}

func TestMonthByName(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"محرم":          1,
		"رَبِيع الأَوَّل": 3,
		"ربيع الآخر":    4,
		"ربيع الثاني":   4,
		"جمادى الآخرة":  6,
		"ذي الحجة":      12,
	}
	for name, want := range cases {
		got, ok := MonthByName(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := MonthByName("يناير")
	assert.False(t, ok)
}

func TestStripMonthNames(t *testing.T) {
	t.Parallel()

	got := StripMonthNames("ليلة السبت 12 ربيع الأول 1447")
	assert.NotContains(t, got, "الأول")
	assert.Contains(t, got, "1447")
}
