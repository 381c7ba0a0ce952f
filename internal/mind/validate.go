package mind

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxMessageLength = 4000

// Injection-looking input is skipped outright, no user-visible effect.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`<script`),
	regexp.MustCompile(`javascript:`),
	regexp.MustCompile(`onerror=`),
	regexp.MustCompile(`eval\(`),
	regexp.MustCompile(`exec\(`),
}

// ValidateInput reports whether a message text is safe to process. Empty text
// is always valid.
func ValidateInput(text string) bool {
	if text == "" {
		return true
	}
	lower := strings.ToLower(text)
	for _, p := range injectionPatterns {
		if p.MatchString(lower) {
			return false
		}
	}
	return utf8.RuneCountInString(text) <= maxMessageLength
}

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopWords = map[string]bool{
	"đang": true,
	"này":  true,
	"thôi": true,
	"nhỉ":  true,
}

// TopicTokens extracts word-like tokens worth tracking: longer than 3 runes
// and not a stop word. Input is expected lowercase.
func TopicTokens(text string) []string {
	var out []string
	for _, w := range wordRe.FindAllString(text, -1) {
		if utf8.RuneCountInString(w) <= 3 || stopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}
