package agent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxReplyChars = 400

var replyLabels = []string{"Reply:", "My reply:", "Response:", "Here's my reply:", "Here is my reply:"}

// Sanitize strips formatting a model tends to wrap around a chat reply:
// announcement labels, code fences and run-on output. It never returns an
// empty string for non-blank input.
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return text
	}

	for _, label := range replyLabels {
		if len(text) >= len(label) && strings.EqualFold(text[:len(label)], label) {
			text = strings.TrimSpace(text[len(label):])
			break
		}
	}

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		inner := lines[1:]
		if n := len(inner); n > 0 && strings.TrimSpace(inner[n-1]) == "```" {
			inner = inner[:n-1]
		}
		text = strings.TrimSpace(strings.Join(inner, "\n"))
	}

	if utf8.RuneCountInString(text) > maxReplyChars {
		if i := strings.Index(text, "\n\n"); i >= 0 {
			text = text[:i]
		}
		text = truncateAtWord(text, maxReplyChars)
	}

	if text = strings.TrimSpace(text); text == "" {
		return strings.TrimSpace(raw)
	}
	return text
}

// truncateAtWord cuts s to at most limit runes without splitting a word, unless
// the first word alone exceeds the limit.
func truncateAtWord(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if unicode.IsSpace(runes[limit]) {
		return strings.TrimSpace(cut)
	}
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
