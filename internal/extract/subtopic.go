package extract

import (
	"sort"
	"strings"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

const maxSubTopicLen = 100

var (
	surahRe   = textnorm.MustCompile(`\(\s*(سورة\s+[^)]+?)\s*\)`)
	chapterRe = textnorm.MustCompile(`(?:^|[\s(])((?:كتاب|باب|فصل)\s+[^\-–(){}\[\]•▪|]+)`)
)

// SubTopic extracts the chapter within a series lesson. mask holds the series
// name and aliases, which are removed first so the series title itself is never
// reported as a chapter. A missing chapter is not a doubt.
func SubTopic(in Input, t domain.LectureType, mask []string) string {
	if t != domain.TypeSeries {
		return domain.Unavailable
	}

	if m := surahRe.FindStringSubmatch(in.Text); m != nil {
		return textnorm.Truncate(m[1], maxSubTopicLen)
	}

	masks := normalizedMasks(mask)
	for _, line := range in.Lines {
		for _, name := range masks {
			line = strings.ReplaceAll(line, name, " | ")
		}
		if m := chapterRe.FindStringSubmatch(line); m != nil {
			sub := strings.Trim(m[1], " :،,.")
			if textnorm.RuneLen(sub) > 4 {
				return textnorm.Truncate(sub, maxSubTopicLen)
			}
		}
	}
	return domain.Unavailable
}

func normalizedMasks(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if n := textnorm.Normalize(name); n != "" {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return textnorm.RuneLen(out[i]) > textnorm.RuneLen(out[j])
	})
	return out
}

