package mind

import (
	"log"
	"math/rand"
	"strings"
	"time"

	"teobot/internal/chat"
)

// PipelineConfig holds the decision gates' knobs.
type PipelineConfig struct {
	AllowedConversations map[string]bool
	NameTokens           []string
	SleepStartHour       int // start <= hour < end disables the bot; >24 disables the window
	SleepEndHour         int
	TriggerProbability   float64
	ReactProbability     float64
	MinReplyInterval     time.Duration
	TriggerWords         []string
	DangerWords          []string
}

func DefaultTriggerWords() []string {
	return []string{"kèo", "bóng", "húp", "lãi", "thua", "gỡ", "đá", "trận"}
}

func DefaultDangerWords() []string {
	return []string{"scam", "lừa đảo", "sập", "bùng", "công an", "bắt"}
}

// Pipeline turns one inbound message into a Verdict. Stages run in a fixed
// order and short-circuit: no stage runs after an earlier Skip. The safety
// gate runs after targeting detection so a direct mention can override it.
type Pipeline struct {
	cfg      PipelineConfig
	selfID   string
	trending *TrendingTracker
	throttle *Throttle
	history  *ConvHistory
}

func NewPipeline(cfg PipelineConfig, selfID string, trending *TrendingTracker, throttle *Throttle, history *ConvHistory) *Pipeline {
	if cfg.TriggerWords == nil {
		cfg.TriggerWords = DefaultTriggerWords()
	}
	if cfg.DangerWords == nil {
		cfg.DangerWords = DefaultDangerWords()
	}
	return &Pipeline{
		cfg:      cfg,
		selfID:   selfID,
		trending: trending,
		throttle: throttle,
		history:  history,
	}
}

func skip(reason string) Verdict {
	return Verdict{Kind: VerdictSkip, Reason: reason}
}

// Decide runs the gate sequence for one message.
func (p *Pipeline) Decide(msg chat.Message, now time.Time) Verdict {
	// Scope gate.
	if !p.cfg.AllowedConversations[msg.ConversationID] {
		return skip("not_allowed")
	}
	if msg.IsDirect {
		return skip("direct")
	}
	if msg.SenderID == p.selfID {
		return skip("self")
	}

	// Quiet hours.
	if hour := now.Hour(); p.cfg.SleepStartHour <= hour && hour < p.cfg.SleepEndHour {
		return skip("quiet_hours")
	}

	// Input validation.
	text := strings.ToLower(msg.Text)
	if !ValidateInput(text) {
		log.Printf("[MIND] invalid input from conversation %s", msg.ConversationID)
		return skip("invalid")
	}

	// Topic ingestion — a side effect, not a gate.
	for _, word := range TopicTokens(text) {
		p.trending.Record(msg.ConversationID, word, now)
	}

	// Targeting detection.
	targeted := false
	if _, mine := p.history.FindMine(msg.ConversationID, msg.ReplyToID); mine {
		targeted = true
	}
	for _, n := range p.cfg.NameTokens {
		if strings.Contains(text, n) {
			targeted = true
			break
		}
	}

	// Safety gate — bypassed by direct targeting, deliberately.
	if !targeted {
		for _, w := range p.cfg.DangerWords {
			if strings.Contains(text, w) {
				return Verdict{Kind: VerdictSkip, Reason: "dangerous", ContentOK: true}
			}
		}
	}

	// Trigger computation.
	hasTrigger := false
	for _, w := range p.cfg.TriggerWords {
		if strings.Contains(text, w) {
			hasTrigger = true
			break
		}
	}
	randomDraw := rand.Float64() < p.cfg.TriggerProbability
	shouldEngage := targeted || msg.HasMedia || hasTrigger || randomDraw

	// Throttle gate — targeted and media messages bypass it.
	if !targeted && !msg.HasMedia {
		if p.throttle.TooSoon(msg.ConversationID, msg.ThreadID(), p.cfg.MinReplyInterval, now) {
			return Verdict{Kind: VerdictSkip, Reason: "throttled", ContentOK: true}
		}
	}

	if !shouldEngage {
		if rand.Float64() < p.cfg.ReactProbability {
			return Verdict{
				Kind:      VerdictReactOnly,
				Sentiment: ClassifySentiment(text),
				ContentOK: true,
			}
		}
		return Verdict{Kind: VerdictSkip, Reason: "no_engage", ContentOK: true}
	}

	// Claim the thread before any downstream I/O so a concurrent handler for
	// the same thread cannot also pass the throttle gate.
	p.throttle.MarkReplied(msg.ConversationID, msg.ThreadID(), now)

	// Only targeted engagement threads onto the triggering message; ambient
	// replies go out as plain sends.
	replyTo := ""
	if targeted {
		replyTo = msg.MessageID
	}
	return Verdict{
		Kind:      VerdictRespond,
		ReplyTo:   replyTo,
		Targeted:  targeted,
		HasMedia:  msg.HasMedia,
		ContentOK: true,
	}
}
