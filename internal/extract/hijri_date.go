package extract

import (
	"regexp"
	"strconv"
	"strings"

	"LectureIndexer/internal/calendar"
	"LectureIndexer/internal/textnorm"
)

const maxHijriTextLen = 60

var (
	hijriBracketRe = regexp.MustCompile(`❲\s*([^❳]+?)\s*❳`)
	hijriLabelRe   = textnorm.MustCompile(`التاريخ\s*[:：]\s*(.+)$`)
	hijriNumericRe = regexp.MustCompile(`(\d{1,2})\s*[/\-]\s*(\d{1,2})\s*[/\-]\s*(1[34]\d{2})`)
	hijriISORe     = regexp.MustCompile(`(1[34]\d{2})\s*[/\-]\s*(\d{1,2})\s*[/\-]\s*(\d{1,2})`)
	hijriNamedRe   = regexp.MustCompile(`(\d{1,2})\s+(` + calendar.MonthPattern() + `)\s+(1[34]\d{2})`)
)

// HijriDate finds the date written in the Islamic calendar. text is the
// display form; found reports whether a day/month/year triple was read.
func HijriDate(in Input) (text string, date calendar.HijriDate, found bool, doubts []string) {
	if m := hijriBracketRe.FindStringSubmatch(in.Text); m != nil {
		text = textnorm.Truncate(m[1], maxHijriTextLen)
		date, found = parseHijriTriple(m[1])
		return text, date, found, nil
	}

	for _, line := range in.Lines {
		if m := hijriLabelRe.FindStringSubmatch(line); m != nil {
			if date, found = parseHijriTriple(m[1]); found {
				return cleanHijriText(textnorm.Truncate(m[1], maxHijriTextLen)), date, true, nil
			}
		}
	}

	for _, re := range []*regexp.Regexp{hijriNamedRe, hijriNumericRe, hijriISORe} {
		if loc := re.FindStringIndex(in.Text); loc != nil {
			span := in.Text[loc[0]:loc[1]]
			date, found = parseHijriTriple(span)
			return span, date, found, nil
		}
	}

	return "", calendar.HijriDate{}, false, []string{DoubtNoHijri}
}

func parseHijriTriple(s string) (calendar.HijriDate, bool) {
	s = textnorm.Digits(s)
	if m := hijriNamedRe.FindStringSubmatch(s); m != nil {
		month, ok := calendar.MonthByName(m[2])
		if !ok {
			return calendar.HijriDate{}, false
		}
		return calendar.HijriDate{Day: atoi(m[1]), Month: month, Year: atoi(m[3])}, true
	}
	if m := hijriNumericRe.FindStringSubmatch(s); m != nil {
		return calendar.HijriDate{Day: atoi(m[1]), Month: atoi(m[2]), Year: atoi(m[3])}, true
	}
	if m := hijriISORe.FindStringSubmatch(s); m != nil {
		return calendar.HijriDate{Day: atoi(m[3]), Month: atoi(m[2]), Year: atoi(m[1])}, true
	}
	return calendar.HijriDate{}, false
}

func cleanHijriText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "ه")
	return strings.TrimSpace(s)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
