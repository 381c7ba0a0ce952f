package mind

import (
	"context"
	"log"
	"math/rand"
	"regexp"
	"time"

	"teobot/internal/chat"
)

// DeliveryConfig holds the humanized-sending knobs.
type DeliveryConfig struct {
	SkipProbability       float64       // chance to type and then say nothing
	CorrectionProbability float64       // chance to send truncated then edit
	TypoProbability       float64       // chance to apply one typo rule
	CharDelayMin          time.Duration // per-character typing simulation bounds
	CharDelayMax          time.Duration
}

func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		SkipProbability:       0.05,
		CorrectionProbability: 0.25,
		TypoProbability:       0.3,
		CharDelayMin:          80 * time.Millisecond,
		CharDelayMax:          150 * time.Millisecond,
	}
}

// Delivery sends replies with human pacing: a typing indicator, a length-scaled
// delay, occasional typos, and the occasional truncated-send-then-edit.
type Delivery struct {
	transport chat.Transport
	cfg       DeliveryConfig

	// sleep is replaceable in tests to skip the pacing delays.
	sleep func(d time.Duration)
	// wait acquires one outbound-transport token, replaceable in tests.
	wait func(ctx context.Context) error
}

func NewDelivery(transport chat.Transport, governors *Governors, cfg DeliveryConfig) *Delivery {
	return &Delivery{
		transport: transport,
		cfg:       cfg,
		sleep:     time.Sleep,
		wait:      governors.WaitTransport,
	}
}

// SendReply delivers text to the conversation and returns the sent message id.
// An empty id with a nil error means the skip-turn path fired and nothing was
// sent. The returned text is what actually went out, typos included.
func (d *Delivery) SendReply(ctx context.Context, conversationID, text, replyToID string) (string, string, error) {
	// Sometimes a human starts typing and thinks better of it.
	if rand.Float64() < d.cfg.SkipProbability {
		if err := d.sendTyping(ctx, conversationID); err != nil {
			return "", "", err
		}
		d.sleep(randomDuration(2*time.Second, 5*time.Second))
		return "", "", nil
	}

	if err := d.sendTyping(ctx, conversationID); err != nil {
		return "", "", err
	}
	typing := d.typingDuration(text)

	runes := []rune(text)
	if rand.Float64() < d.cfg.CorrectionProbability && len(runes) > 8 {
		// Send a truncated draft, then fix it with an edit. Every transport call
		// takes its own token, acquired right before the call.
		cut := len(runes) - 1 - rand.Intn(3)
		draft := string(runes[:cut])
		d.sleep(typing * 6 / 10)
		if err := d.wait(ctx); err != nil {
			return "", "", err
		}
		id, err := d.transport.SendMessage(ctx, conversationID, draft, replyToID)
		if err != nil {
			return "", "", err
		}
		d.sleep(randomDuration(1*time.Second, 2*time.Second))
		final := d.ApplyTypos(text)
		if err := d.wait(ctx); err != nil {
			return id, draft, err
		}
		if err := d.transport.EditMessage(ctx, conversationID, id, final); err != nil {
			log.Printf("[MIND] correction edit failed: %v", err)
			return id, draft, nil
		}
		return id, final, nil
	}

	d.sleep(typing)
	final := d.ApplyTypos(text)
	if err := d.wait(ctx); err != nil {
		return "", "", err
	}
	id, err := d.transport.SendMessage(ctx, conversationID, final, replyToID)
	if err != nil {
		return "", "", err
	}
	return id, final, nil
}

// sendTyping acquires a token and emits the typing indicator. A failed
// indicator is logged and tolerated; only a failed token acquisition aborts.
func (d *Delivery) sendTyping(ctx context.Context, conversationID string) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	if err := d.transport.SendTyping(ctx, conversationID); err != nil {
		log.Printf("[MIND] typing indicator failed: %v", err)
	}
	return nil
}

func (d *Delivery) typingDuration(text string) time.Duration {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	per := randomDuration(d.cfg.CharDelayMin, d.cfg.CharDelayMax)
	dur := time.Duration(n) * per
	if dur > 8*time.Second {
		dur = 8 * time.Second
	}
	return dur
}

type typoRule struct {
	re  *regexp.Regexp
	sub string
}

var typoRules = []typoRule{
	{regexp.MustCompile(`(^|\s)đ(\s|$)`), "${1}d${2}"},
	{regexp.MustCompile(`ư`), "u"},
	{regexp.MustCompile(`ơ`), "o"},
	{regexp.MustCompile(`giờ`), "gio"},
	{regexp.MustCompile(`được`), "duoc"},
	{regexp.MustCompile(`không`), "ko"},
	{regexp.MustCompile(`vậy`), "vay"},
	{regexp.MustCompile(`thế`), "the"},
}

// ApplyTypos maybe degrades the text with one realistic typo. At most one rule
// fires, applied to the first occurrence only.
func (d *Delivery) ApplyTypos(text string) string {
	if rand.Float64() >= d.cfg.TypoProbability {
		return text
	}
	rule := typoRules[rand.Intn(len(typoRules))]
	loc := rule.re.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + rule.re.ReplaceAllString(text[loc[0]:loc[1]], rule.sub) + text[loc[1]:]
}

var reactionEmojis = map[Sentiment][]string{
	SentimentPositive: {"❤️", "🔥", "👍", "💯"},
	SentimentNegative: {"😢", "💀", "😭"},
	SentimentFunny:    {"😂", "🤣", "💀"},
	SentimentSurprise: {"😮", "🤯", "👀"},
	SentimentNeutral:  {"👍", "👀", "🙂"},
}

// SendReaction attaches a sentiment-matched emoji reaction after a short
// human-looking pause.
func (d *Delivery) SendReaction(ctx context.Context, conversationID, messageID string, sentiment Sentiment) error {
	emojis, ok := reactionEmojis[sentiment]
	if !ok {
		emojis = reactionEmojis[SentimentNeutral]
	}
	emoji := emojis[rand.Intn(len(emojis))]

	d.sleep(randomDuration(500*time.Millisecond, 2*time.Second))
	if err := d.wait(ctx); err != nil {
		return err
	}
	return d.transport.SendReaction(ctx, conversationID, messageID, emoji)
}

var stickerEmojis = []string{"😂", "👍", "🔥", "👀"}

// SendSticker sends a sticker-register payload as a reply.
func (d *Delivery) SendSticker(ctx context.Context, conversationID, replyToID string) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	emoji := stickerEmojis[rand.Intn(len(stickerEmojis))]
	return d.transport.SendSticker(ctx, conversationID, emoji, replyToID)
}

func randomDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
