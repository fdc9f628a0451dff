package extract

import (
	"regexp"
	"strconv"
	"strings"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

var (
	serialNumberRe = []*regexp.Regexp{
		textnorm.MustCompile(`الدرس رقم\s*[(\[]?\s*(\d+)`),
		regexp.MustCompile(`\{\s*(\d+)\s*\}`),
		textnorm.MustCompile(`(?:الدرس|الحلقة|المجلس|درس)\s*[-:(\[]?\s*(\d+)`),
	}
	serialWordsRe = textnorm.MustCompile(`(?:الدرس|الحلقة|المجلس)\s+(ال\S+(?:\s+\S+){0,3})`)
)

// Serial recovers the lesson number. Digits in any script resolve to the same number.
func Serial(in Input) (domain.Serial, domain.Doubts) {
	for _, re := range serialNumberRe {
		m := re.FindStringSubmatch(in.Text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return domain.Serial{Text: m[1], Number: n}, nil
	}

	for _, m := range serialWordsRe.FindAllStringSubmatch(in.Text, -1) {
		words := strings.Fields(m[1])
		for i := range words {
			words[i] = strings.Trim(words[i], "()[]{}:،,.-")
		}
		value, consumed := ParseOrdinal(words)
		if consumed == 0 {
			continue
		}
		return domain.Serial{Text: strings.Join(words[:consumed], " "), Number: value}, nil
	}

	return domain.Serial{Text: domain.Unavailable}, domain.Doubts{DoubtNoSerial}
}
