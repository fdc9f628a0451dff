package calendar

import (
	"regexp"
	"sort"
	"strings"

	"LectureIndexer/internal/textnorm"
)

// monthNames lists the spellings seen in messages, already free of diacritics.
var monthNames = map[string]int{
	"محرم":          1,
	"صفر":           2,
	"ربيع الأول":    3,
	"ربيع الاول":    3,
	"ربيع الآخر":    4,
	"ربيع الاخر":    4,
	"ربيع الثاني":   4,
	"جمادى الأولى":  5,
	"جمادى الاولى":  5,
	"جمادى الأول":   5,
	"جمادى الآخرة":  6,
	"جمادى الاخرة":  6,
	"جمادى الثانية": 6,
	"رجب":           7,
	"شعبان":         8,
	"رمضان":         9,
	"شوال":          10,
	"ذو القعدة":     11,
	"ذي القعدة":     11,
	"ذو الحجة":      12,
	"ذي الحجة":      12,
}

var monthAlternation = buildMonthAlternation()

// MonthByName resolves a Hijri month spelling to its number.
func MonthByName(name string) (int, bool) {
	month, ok := monthNames[textnorm.Normalize(name)]
	return month, ok
}

// MonthPattern returns a regexp alternation of every month spelling, longest first.
func MonthPattern() string {
	return monthAlternation
}

// StripMonthNames blanks out month names so ordinal words inside them are not mistaken for lesson numbers.
func StripMonthNames(text string) string {
	return monthExpr.ReplaceAllString(text, " ")
}

var monthExpr = regexp.MustCompile(monthAlternation)

func buildMonthAlternation() string {
	names := make([]string, 0, len(monthNames))
	for name := range monthNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := len([]rune(names[i])), len([]rune(names[j]))
		if li != lj {
			return li > lj
		}
		return names[i] < names[j]
	})
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	return "(?:" + strings.Join(quoted, "|") + ")"
}
