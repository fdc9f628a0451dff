package extract

import (
	"regexp"
	"strings"

	"LectureIndexer/internal/calendar"
	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

var (
	khutbaMarkers  = []string{"خطبة الجمعة", "خطبة_الجمعة", "عنوان الخطبة"}
	lectureMarker  = "محاضرة"
	seriesMarkerRe = []*regexp.Regexp{
		textnorm.MustCompile(`(?:^|\s|#)(?:الدرس|الحلقة|المجلس)\s`),
		textnorm.MustCompile(`درس رقم`),
		regexp.MustCompile(`\{\s*\d+\s*\}`),
	}
)

// Type classifies a message. Sermon markers win over lesson markers, which
// win over the generic lecture marker; anything else defaults to a series
// lesson with a doubt.
func Type(in Input) (domain.LectureType, domain.Doubts) {
	for _, marker := range khutbaMarkers {
		if strings.Contains(in.Text, marker) {
			return domain.TypeKhutba, nil
		}
	}

	for _, re := range seriesMarkerRe {
		if re.MatchString(in.Text) {
			return domain.TypeSeries, nil
		}
	}
	if hasOrdinalWord(in.Text) {
		return domain.TypeSeries, nil
	}

	if strings.Contains(in.Text, lectureMarker) {
		return domain.TypeLecture, nil
	}

	return domain.TypeSeries, domain.Doubts{DoubtTypeDefaulted}
}

func hasOrdinalWord(text string) bool {
	for _, word := range strings.Fields(calendar.StripMonthNames(text)) {
		if isOrdinalWord(strings.Trim(word, "()[]{}:،,.-")) {
			return true
		}
	}
	return false
}
