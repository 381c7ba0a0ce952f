package mind

import (
	"context"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"teobot/internal/ai"
)

// ProducerConfig bounds the resolution chain.
type ProducerConfig struct {
	MaxAttempts              int           // completion attempts per call
	BaseDelay                time.Duration // first backoff delay, doubles per attempt
	MaxDelay                 time.Duration // backoff cap
	HistoryLimit             int           // turns included in the prompt
	MaxTokens                int
	Temperature              float64
	ThinkingProbability      float64 // chance to prefix thoughtful/skeptical replies
	FollowUpProbability      float64 // chance to append a question to an active conversation
	FollowUpTopicProbability float64 // chance when recent turns mention interesting topics
	QuestionResetProbability float64 // chance to forgive the open-question counter
	MaxOpenQuestions         int
}

func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		MaxAttempts:              3,
		BaseDelay:                2 * time.Second,
		MaxDelay:                 10 * time.Second,
		HistoryLimit:             25,
		MaxTokens:                80,
		Temperature:              1.0,
		ThinkingProbability:      0.3,
		FollowUpProbability:      0.2,
		FollowUpTopicProbability: 0.15,
		QuestionResetProbability: 0.3,
		MaxOpenQuestions:         2,
	}
}

// Request carries everything the producer needs for one Respond verdict.
type Request struct {
	ConversationID string
	Text           string // lowercased message text
	Targeted       bool
	HasMedia       bool
	Image          []byte
	MyPreviousMsg  string // the bot message this one replies to, if any
	History        []HistoryMessage
}

// Reply is a resolved outbound reply plus its routing hints.
type Reply struct {
	Text     string
	Source   string // "rule" | "cache" | "completion" | "fallback"
	Sticker  bool
	Reaction Sentiment // "" when the raw output carried no emotion tag
}

// Producer resolves a reply through the ordered chain:
// rule pattern -> cache -> completion call with retry and fallback.
// Media-present or directly-targeted requests skip straight to the completion.
type Producer struct {
	provider  ai.Provider
	governors *Governors
	cache     *ReplyCache
	trending  *TrendingTracker
	topics    *TopicMemory
	mood      *MoodClock
	phrases   *Phrases
	cfg       ProducerConfig

	// wait is the backoff sleep, replaceable in tests.
	wait func(ctx context.Context, d time.Duration) error
}

func NewProducer(provider ai.Provider, governors *Governors, cache *ReplyCache, trending *TrendingTracker, topics *TopicMemory, mood *MoodClock, phrases *Phrases, cfg ProducerConfig) *Producer {
	return &Producer{
		provider:  provider,
		governors: governors,
		cache:     cache,
		trending:  trending,
		topics:    topics,
		mood:      mood,
		phrases:   phrases,
		cfg:       cfg,
		wait:      ctxSleep,
	}
}

// preview shortens text for log lines.
func preview(s string) string {
	r := []rune(s)
	if len(r) > 60 {
		return string(r[:60]) + "..."
	}
	return s
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Resolve runs the resolution chain. It always returns a usable Reply; every
// failure path degrades to a literal fallback, never an error.
func (p *Producer) Resolve(ctx context.Context, req Request) Reply {
	now := time.Now()

	if !req.HasMedia && !req.Targeted {
		if reply, ok := MatchRulePattern(req.Text); ok {
			return Reply{Text: reply, Source: "rule"}
		}
		if reply, ok := p.cache.Get(req.Text, now); ok {
			return Reply{Text: reply, Source: "cache"}
		}
	}

	emotion := ClassifyEmotion(req.Text, req.History)

	// Hourly quota is a hard gate: when exhausted the completion collaborator
	// is never invoked, the literal fallback goes out instead.
	if !p.governors.Quota().Allow(now) {
		log.Printf("[MIND] hourly completion quota reached, using fallback")
		return Reply{Text: p.phrases.Casual(), Source: "fallback"}
	}

	raw, err := p.complete(ctx, req, emotion)
	if err != nil {
		log.Printf("[MIND] completion failed: %v", err)
		return Reply{Text: p.emotionalFallback(emotion), Source: "fallback"}
	}

	result := p.addThinkingDepth(raw, emotion)
	if p.shouldFollowUp(req.ConversationID, req.History) {
		result = result + " " + p.phrases.FollowUp()
		p.topics.NoteQuestion(req.ConversationID)
	}

	trending, _ := p.trending.TopTopic(req.ConversationID, now)
	if !p.isRelevant(result, trending, req.History) {
		log.Printf("[MIND] reply deemed irrelevant, using contextual fallback")
		return Reply{Text: p.emotionalFallback(emotion), Source: "fallback"}
	}

	reply := finalizeReply(result, p.phrases)
	if reply.Text != "" && !req.HasMedia {
		p.cache.Put(req.Text, reply.Text, now)
	}
	return reply
}

// complete builds the prompt and calls the backend with bounded retry.
func (p *Producer) complete(ctx context.Context, req Request, emotion Emotion) (string, error) {
	history := req.History
	if len(history) > p.cfg.HistoryLimit {
		history = history[len(history)-p.cfg.HistoryLimit:]
	}

	var summary string
	if len(history) >= 5 {
		summary = p.summarize(ctx, history)
	}

	trending, _ := p.trending.TopTopic(req.ConversationID, time.Now())
	mood := p.mood.Current(time.Now())
	messages := buildMessages(req, mood, emotion, summary, trending, p.phrases, history)
	log.Printf("[MIND] completion mood=%s emotion=%s text=%q", mood.Mood, emotion, preview(req.Text))

	return p.generate(ctx, messages, ai.Options{
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	})
}

// generate retries transient failures with doubling backoff. Quota and other
// permanent errors return immediately so the caller can fall back.
func (p *Producer) generate(ctx context.Context, messages []ai.Message, opts ai.Options) (string, error) {
	delay := p.cfg.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if err := p.governors.WaitCompletion(ctx); err != nil {
			return "", err
		}
		out, err := p.provider.Generate(ctx, messages, opts)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !ai.IsTransient(err) {
			return "", err
		}
		if attempt == p.cfg.MaxAttempts {
			break
		}
		log.Printf("[MIND] completion attempt %d failed: %v, sleeping %v", attempt, err, delay)
		if err := p.wait(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
		if delay > p.cfg.MaxDelay {
			delay = p.cfg.MaxDelay
		}
	}
	return "", lastErr
}

// summarize condenses the conversation for the prompt. Best-effort: any
// failure just drops the summary block.
func (p *Producer) summarize(ctx context.Context, history []HistoryMessage) string {
	if len(history) < 3 {
		return ""
	}
	if len(history) > 10 {
		history = history[len(history)-10:]
	}
	var b strings.Builder
	for _, h := range history {
		b.WriteString(h.Name)
		b.WriteString(": ")
		b.WriteString(h.Text)
		b.WriteString("\n")
	}
	messages := []ai.Message{
		{Role: "system", Content: "Tóm tắt ngắn gọn cuộc trò chuyện này (2-3 câu, tiếng Việt). " +
			"Xác định chủ đề chính (bóng đá, cá độ, vui vẻ), tâm trạng nhóm, " +
			"và điểm nổi bật cần nhớ. Dùng teencode tự nhiên."},
		{Role: "user", Content: b.String()},
	}
	summary, err := p.generate(ctx, messages, ai.Options{MaxTokens: 60, Temperature: 0.7})
	if err != nil {
		log.Printf("[MIND] context summary failed: %v", err)
		return ""
	}
	return summary
}

func (p *Producer) addThinkingDepth(result string, emotion Emotion) string {
	if rand.Float64() >= p.cfg.ThinkingProbability {
		return result
	}
	if emotion == EmotionThoughtful || emotion == EmotionSkeptical {
		return p.phrases.ThinkingPrefix() + "... " + result
	}
	return result
}

var interestingTopics = []string{"kèo", "bóng", "trận", "đội", "cược", "thắng", "thua"}

func (p *Producer) shouldFollowUp(conversationID string, history []HistoryMessage) bool {
	if p.topics.QuestionsAsked(conversationID) >= p.cfg.MaxOpenQuestions {
		if rand.Float64() < p.cfg.QuestionResetProbability {
			p.topics.ResetQuestions(conversationID)
		}
		return false
	}
	if len(history) >= 3 && rand.Float64() < p.cfg.FollowUpProbability {
		return true
	}
	if len(history) >= 2 {
		var b strings.Builder
		for _, h := range history[len(history)-2:] {
			t := h.Text
			if len(t) > 50 {
				t = t[:50]
			}
			b.WriteString(strings.ToLower(t))
			b.WriteString(" ")
		}
		recent := b.String()
		for _, topic := range interestingTopics {
			if strings.Contains(recent, topic) {
				return rand.Float64() < p.cfg.FollowUpTopicProbability
			}
		}
	}
	return false
}

var casualAcks = []string{"uh", "oke", "vl", "kkk", "haha", "lol", "đồng ý", "chuẩn", "phải", "ừ"}

// isRelevant is a lightweight sanity check on the generated text; it errs
// toward relevant to avoid over-filtering.
func (p *Producer) isRelevant(result, trending string, history []HistoryMessage) bool {
	trimmed := strings.TrimSpace(result)
	if utf8.RuneCountInString(trimmed) < 3 {
		return false
	}
	if len(strings.Fields(trimmed)) <= 8 {
		return true
	}
	lower := strings.ToLower(result)
	if trending != "" && strings.Contains(lower, trending) {
		return true
	}
	if len(history) >= 2 {
		n := 3
		if len(history) < n {
			n = len(history)
		}
		var b strings.Builder
		for _, h := range history[len(history)-n:] {
			t := h.Text
			if len(t) > 50 {
				t = t[:50]
			}
			b.WriteString(strings.ToLower(t))
			b.WriteString(" ")
		}
		topicWords := make(map[string]bool)
		for _, w := range wordRe.FindAllString(b.String(), -1) {
			topicWords[w] = true
		}
		for _, w := range wordRe.FindAllString(lower, -1) {
			if topicWords[w] {
				return true
			}
		}
	}
	for _, w := range casualAcks {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return true
}

func (p *Producer) emotionalFallback(emotion Emotion) string {
	if phrase, ok := p.phrases.Emotional(emotion); ok {
		return phrase
	}
	return p.phrases.Casual()
}

var bracketTagRe = regexp.MustCompile(`\[[^\]]*\]`)
var plainTextRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// Emotion tags the model may append; the first one found maps to a reaction.
var reactionTags = []struct {
	tag       string
	sentiment Sentiment
}{
	{"[vui]", SentimentPositive},
	{"[hai]", SentimentFunny},
	{"[like]", SentimentPositive},
	{"[buon]", SentimentNegative},
	{"[wow]", SentimentSurprise},
}

// finalizeReply strips inline directives from raw completion output, routes
// the sticker directive, and maps emotion tags to an optional reaction.
func finalizeReply(raw string, phrases *Phrases) Reply {
	reply := Reply{Source: "completion"}

	for _, rt := range reactionTags {
		if strings.Contains(raw, rt.tag) {
			reply.Reaction = rt.sentiment
			break
		}
	}
	reply.Sticker = strings.Contains(raw, "[sticker]")

	text := bracketTagRe.ReplaceAllString(raw, "")
	text = strings.TrimSpace(strings.ToLower(text))
	text = plainTextRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) < 2 && !reply.Sticker {
		text = phrases.Casual()
		reply.Source = "fallback"
	}
	reply.Text = text
	return reply
}
