package mind

import "strings"

// Keyword sets are checked in a fixed order; the first matching category wins.
// The order is load-bearing: skeptical patterns must run before confident ones,
// otherwise "không chắc" would match confident's "chắc" substring.

var sentimentOrder = []struct {
	sentiment Sentiment
	words     []string
}{
	{SentimentFunny, []string{"kkk", "haha", "lol", "lmao", "😂", "🤣"}},
	{SentimentPositive, []string{"vui", "vãi", "đỉnh", "ngon", "thắng", "ăn"}},
	{SentimentNegative, []string{"buồn", "thua", "sập", "cháy", "rip"}},
	{SentimentSurprise, []string{"wtf", "wut", "sao", "gì vậy"}},
}

// ClassifySentiment buckets a message by keyword membership. Defaults to neutral.
func ClassifySentiment(text string) Sentiment {
	lower := strings.ToLower(text)
	for _, cat := range sentimentOrder {
		for _, w := range cat.words {
			if strings.Contains(lower, w) {
				return cat.sentiment
			}
		}
	}
	return SentimentNeutral
}

var emotionOrder = []struct {
	emotion Emotion
	words   []string
}{
	{EmotionExcited, []string{"thắng", "lãi", "ăn", "đỉnh", "ngon"}},
	{EmotionWorried, []string{"thua", "sập", "cháy", "mất"}},
	{EmotionThoughtful, []string{"kèo", "tỷ lệ", "phân tích", "nghiên cứu"}},
	{EmotionSkeptical, []string{"không chắc", "rủi ro", "nghi ngờ"}},
	{EmotionConfident, []string{"chắc", "ez", "dễ", "ăn chắc"}},
}

var laughterMarkers = []string{"haha", "lol", "kkk"}

// ClassifyEmotion derives the conversational emotion from the message text,
// falling back to laughter markers in the last 3 history entries, then playful.
func ClassifyEmotion(text string, history []HistoryMessage) Emotion {
	lower := strings.ToLower(text)
	for _, cat := range emotionOrder {
		for _, w := range cat.words {
			if strings.Contains(lower, w) {
				return cat.emotion
			}
		}
	}

	if len(history) >= 3 {
		var b strings.Builder
		for _, h := range history[len(history)-3:] {
			t := h.Text
			if len(t) > 50 {
				t = t[:50]
			}
			b.WriteString(strings.ToLower(t))
			b.WriteString(" ")
		}
		recent := b.String()
		for _, m := range laughterMarkers {
			if strings.Contains(recent, m) {
				return EmotionPlayful
			}
		}
	}

	return EmotionPlayful
}
