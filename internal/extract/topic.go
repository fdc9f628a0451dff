package extract

import (
	"regexp"
	"strings"

	"LectureIndexer/internal/domain"
	"LectureIndexer/internal/textnorm"
)

const (
	minTopicLen = 3
	maxTopicLen = 100
)

var (
	topicLabelRe     = textnorm.MustCompile(`(?:(?:عنوان الخطبة|عنوان المحاضرة|موضوع|العنوان)\s*[:：]|بعنوان\s*[:：]?)\s*(.*)$`)
	topicDecoratedRe = []*regexp.Regexp{
		regexp.MustCompile(`•\s*\[\s*([^\]]+?)\s*\]\s*•`),
		regexp.MustCompile(`▪\s*([^▪]+?)\s*▪`),
	}
	topicBracketRe = regexp.MustCompile(`[\[【]\s*([^\]】]+?)\s*[\]】]`)
)

const topicTrim = " ▪•:：-–«»\"'"

// Topic extracts the title of a sermon or standalone lecture. Series lessons never carry a topic.
func Topic(in Input, t domain.LectureType) (string, domain.Doubts) {
	if t != domain.TypeKhutba && t != domain.TypeLecture {
		return domain.Unavailable, nil
	}

	for i, line := range in.Lines {
		m := topicLabelRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		candidate := m[1]
		if strings.Trim(candidate, topicTrim) == "" && i+1 < len(in.Lines) {
			candidate = in.Lines[i+1]
		}
		if topic, ok := cleanTopic(candidate); ok {
			return topic, nil
		}
	}

	for _, re := range topicDecoratedRe {
		for _, m := range re.FindAllStringSubmatch(in.Text, -1) {
			if topic, ok := cleanTopic(m[1]); ok {
				return topic, nil
			}
		}
	}

	for _, m := range topicBracketRe.FindAllStringSubmatch(in.Text, -1) {
		if topic, ok := cleanTopic(m[1]); ok {
			return topic, nil
		}
	}

	return domain.Unavailable, domain.Doubts{DoubtNoTopic}
}

func cleanTopic(candidate string) (string, bool) {
	candidate = strings.TrimLeft(candidate, topicTrim)
	if cut := strings.IndexAny(candidate, "▪•"); cut >= 0 {
		candidate = candidate[:cut]
	}
	topic := strings.Trim(candidate, topicTrim)
	n := textnorm.RuneLen(topic)
	if n < minTopicLen || n > maxTopicLen {
		return "", false
	}
	return topic, true
}
