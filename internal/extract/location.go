package extract

import (
	"regexp"
	"strings"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

var onlineMarkers = []*regexp.Regexp{
	textnorm.MustCompile(`عن\s*بعد`),
	textnorm.MustCompile(`عبر قناة`),
	textnorm.MustCompile(`عبر قناته`),
	textnorm.MustCompile(`عبر التليجرام`),
	textnorm.MustCompile(`عبر التلغرام`),
	textnorm.MustCompile(`عبر البث`),
}

// rawOnlineMarker only counts when the damma is present; without it the word means "after".
const rawOnlineMarker = "\u0628\u064f\u0639\u062f"

// Location looks for explicit online markers, then for the venue name.
// explicit is false when the text says nothing about where the lesson was given.
func Location(in Input, venue string) (loc domain.Location, explicit bool) {
	for _, re := range onlineMarkers {
		if re.MatchString(in.Text) {
			return domain.Online, true
		}
	}
	if strings.Contains(in.Raw, rawOnlineMarker) {
		return domain.Online, true
	}
	if venue != "" && strings.Contains(in.Text, textnorm.Normalize(venue)) {
		return domain.OnSite, true
	}
	return domain.OnSite, false
}
