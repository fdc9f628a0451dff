package extract

import "strings"

var ordinalUnits = map[string]int{
	"الأول": 1, "الاول": 1, "الأولى": 1, "الاولى": 1, "الحادي": 1, "الحادية": 1,
	"الثاني": 2, "الثانية": 2,
	"الثالث": 3, "الثالثة": 3,
	"الرابع": 4, "الرابعة": 4,
	"الخامس": 5, "الخامسة": 5,
	"السادس": 6, "السادسة": 6,
	"السابع": 7, "السابعة": 7,
	"الثامن": 8, "الثامنة": 8,
	"التاسع": 9, "التاسعة": 9,
	"العاشر": 10, "العاشرة": 10,
}

var ordinalTens = map[string]int{
	"العشرون": 20, "العشرين": 20,
	"الثلاثون": 30, "الثلاثين": 30,
	"الأربعون": 40, "الاربعون": 40, "الأربعين": 40, "الاربعين": 40,
	"الخمسون": 50, "الخمسين": 50,
	"الستون": 60, "الستين": 60,
	"السبعون": 70, "السبعين": 70,
	"الثمانون": 80, "الثمانين": 80,
	"التسعون": 90, "التسعين": 90,
}

var ordinalHundreds = map[string]int{
	"المائة": 100, "المئة": 100, "المائتين": 200, "المئتين": 200,
}

// ParseOrdinal reads an Arabic ordinal phrase from the start of words, e.g.
// "الحادي عشر", "الثالث والعشرون" or "الخامس بعد المائة". It returns the value
// and how many words were consumed; consumed is zero when words do not start
// with an ordinal.
func ParseOrdinal(words []string) (value, consumed int) {
	i := 0
	if i < len(words) {
		if unit, ok := ordinalUnits[words[i]]; ok {
			value = unit
			i++
			if unit < 10 && i < len(words) && (words[i] == "عشر" || words[i] == "عشرة") {
				value += 10
				i++
			}
		}
	}

	if i < len(words) {
		word := words[i]
		if i > 0 {
			word = strings.TrimPrefix(word, "و")
		}
		if tens, ok := ordinalTens[word]; ok && value < 10 {
			value += tens
			i++
		}
	}

	if i < len(words) {
		switch {
		case words[i] == "بعد" && i > 0 && i+1 < len(words):
			if hundreds, ok := ordinalHundreds[words[i+1]]; ok {
				value += hundreds
				i += 2
			}
		case i == 0:
			if hundreds, ok := ordinalHundreds[words[i]]; ok {
				value += hundreds
				i++
			}
		}
	}

	if i == 0 {
		return 0, 0
	}
	return value, i
}

// isOrdinalWord reports whether a single token is a unit or tens ordinal.
func isOrdinalWord(word string) bool {
	word = strings.TrimPrefix(word, "و")
	if _, ok := ordinalUnits[word]; ok {
		return true
	}
	_, ok := ordinalTens[word]
	return ok
}
