package extract

import (
	"strings"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

// Category names used in output tables.
const (
	CategoryAqeedah = "Aqeedah"
	CategoryFiqh    = "Fiqh"
	CategoryHadeeth = "Hadeeth"
	CategorySeerah  = "Seerah"
	CategoryOther   = "Other"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryAqeedah, []string{"توحيد", "عقيدة", "أسماء", "صفات", "إيمان"}},
	{CategoryFiqh, []string{"صلاة", "صيام", "زكاة", "حج", "نكاح", "بيوع", "فقه"}},
}

// Category classifies a record. Series take the category of their schedule
// entry; sermons and lectures are classified by keywords in topic and text.
func Category(in Input, t domain.LectureType, topic string, entry *domain.ScheduleEntry) (string, domain.Doubts) {
	switch t {
	case domain.TypeSeries:
		if entry != nil && entry.Category != "" {
			return entry.Category, nil
		}
		return domain.Unavailable, domain.Doubts{DoubtNoCategory}
	case domain.TypeKhutba, domain.TypeLecture:
		haystack := topic + " " + in.Text
		for _, group := range categoryKeywords {
			for _, keyword := range group.keywords {
				if containsWord(haystack, keyword) {
					return group.category, nil
				}
			}
		}
		return CategoryOther, nil
	default:
		return CategoryOther, nil
	}
}

// containsWord matches keyword against tokens with their conjunction and
// article prefixes removed; keywords of three or more letters also match as a
// token prefix, so "فقه" finds "الفقهي" while "حج" stays clear of "الحجة".
func containsWord(haystack, keyword string) bool {
	keyword = stripPrefixes(keyword)
	for _, token := range strings.Fields(haystack) {
		token = stripPrefixes(strings.Trim(token, "()[]{}:،,.-!؟"))
		if token == keyword {
			return true
		}
		if textnorm.RuneLen(keyword) >= 3 && strings.HasPrefix(token, keyword) {
			return true
		}
	}
	return false
}

func stripPrefixes(token string) string {
	token = strings.TrimPrefix(token, "و")
	for _, prefix := range []string{"بال", "لل", "ال"} {
		if rest := strings.TrimPrefix(token, prefix); rest != token && textnorm.RuneLen(rest) >= 2 {
			return rest
		}
	}
	return token
}
