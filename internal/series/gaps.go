package series

import (
	"time"

	"LectureIndexer/internal/calendar"
	"LectureIndexer/internal/domain"
)

// GapThresholdDays is the longest break between lessons that is not a gap.
const GapThresholdDays = 14

// DetectGaps reports adjacent pairs in sorted dates more than two weeks apart.
func DetectGaps(dates []time.Time, classesPerWeek int) []domain.Gap {
	if classesPerWeek < 1 {
		classesPerWeek = 1
	}
	var gaps []domain.Gap
	for i := 1; i < len(dates); i++ {
		days := calendar.DaysBetween(dates[i-1], dates[i])
		if days <= GapThresholdDays {
			continue
		}
		weeks := days / 7
		gaps = append(gaps, domain.Gap{
			From:             dates[i-1],
			To:               dates[i],
			Days:             days,
			Weeks:            weeks,
			EstimatedMissing: weeks * classesPerWeek,
		})
	}
	return gaps
}
