package mind

import "time"

// Mood — coarse persona state, shifts on a slow randomized clock.
type Mood string

const (
	MoodHype   Mood = "hype"
	MoodChill  Mood = "chill"
	MoodTired  Mood = "mệt"
	MoodAwake  Mood = "tỉnh"
	MoodTipsy  Mood = "say nhẹ"
)

// Emotion — conversational coloring, recomputed per message.
type Emotion string

const (
	EmotionExcited    Emotion = "excited"
	EmotionWorried    Emotion = "worried"
	EmotionThoughtful Emotion = "thoughtful"
	EmotionSkeptical  Emotion = "skeptical"
	EmotionConfident  Emotion = "confident"
	EmotionPlayful    Emotion = "playful"
)

// Sentiment — lexical read of an inbound message, drives reactions.
type Sentiment string

const (
	SentimentFunny    Sentiment = "funny"
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentSurprise Sentiment = "surprise"
	SentimentNeutral  Sentiment = "neutral"
)

// MoodState is the mood clock's snapshot. ChangedAt never moves backwards.
type MoodState struct {
	Mood      Mood
	Emotion   Emotion
	ChangedAt time.Time
}

// VerdictKind classifies what the pipeline decided to do with a message.
type VerdictKind int

const (
	VerdictSkip VerdictKind = iota
	VerdictReactOnly
	VerdictRespond
)

// Verdict is the decision pipeline output. Produced fresh per message, never stored.
type Verdict struct {
	Kind      VerdictKind
	Sentiment Sentiment // set for ReactOnly
	ReplyTo   string    // message id to reply to, "" for a plain send
	Targeted  bool
	HasMedia  bool
	// ContentOK marks a message that passed scope and validation, so it belongs
	// in conversation history even when skipped.
	ContentOK bool
	Reason    string // skip reason, for logging
}

// HistoryMessage is one entry in a conversation's short-term buffer.
type HistoryMessage struct {
	MessageID string
	Name      string
	Text      string
	Mine      bool
	At        time.Time
}
