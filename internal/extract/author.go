package extract

import (
	"regexp"
	"strings"

	"LectureIndexer/internal/textnorm"
)

var (
	authorRe = textnorm.MustCompile(`(?:للعلامة|للإمام|للامام|تأليف|قام بإعداده)\s*[:：]?\s*([^\-–(){}\[\]•▪:،]+)`)
	honorRe  = []*regexp.Regexp{
		textnorm.MustCompile(`رحمه الله.*$`),
		textnorm.MustCompile(`حفظه الله.*$`),
		textnorm.MustCompile(`رحمهم الله.*$`),
		textnorm.MustCompile(`تعالى.*$`),
	}
)

const maxAuthorLen = 80

// Author extracts the original book author named in a series lesson.
func Author(in Input) (string, bool) {
	for _, line := range in.Lines {
		m := authorRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		author := m[1]
		for _, re := range honorRe {
			author = re.ReplaceAllString(author, "")
		}
		author = strings.Trim(author, " .،,")
		if n := textnorm.RuneLen(author); n >= 3 && n <= maxAuthorLen {
			return author, true
		}
	}
	return "", false
}
