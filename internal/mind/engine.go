package mind

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"teobot/internal/ai"
	"teobot/internal/chat"
)

// ContextStore persists per-user interaction snapshots. Optional; nil disables
// persistence and errors only log.
type ContextStore interface {
	BumpUser(conversationID, userID, topic, sentiment string, now time.Time) error
}

// EngineConfig aggregates the per-stage knobs plus the limiter budgets.
type EngineConfig struct {
	Pipeline PipelineConfig
	Producer ProducerConfig
	Delivery DeliveryConfig

	TransportPerMinute  int
	CompletionPerMinute int
	CompletionPerHour   int

	// ReactionTagProbability is the chance a completion-suggested emotion tag
	// actually becomes a reaction on the inbound message.
	ReactionTagProbability float64

	SelfName string // how the bot labels its own turns in history
	Phrases  *Phrases
}

// Engine wires the full message path: decision pipeline, reply producer,
// humanized delivery, history and user-context bookkeeping. One engine serves
// all conversations; HandleMessage is safe to call from concurrent handlers.
type Engine struct {
	cfg       EngineConfig
	transport chat.Transport
	pipeline  *Pipeline
	producer  *Producer
	delivery  *Delivery
	governors *Governors
	trending  *TrendingTracker
	history   *ConvHistory
	recent    *RecentReplies
	contexts  ContextStore

	// sleep covers the hesitation pauses, replaceable in tests.
	sleep func(d time.Duration)
}

func NewEngine(cfg EngineConfig, transport chat.Transport, provider ai.Provider, trendingStore TrendingStore, contexts ContextStore) *Engine {
	if cfg.Phrases == nil {
		cfg.Phrases = DefaultPhrases()
	}
	if cfg.SelfName == "" {
		cfg.SelfName = "tèo"
	}

	governors := NewGovernors(cfg.TransportPerMinute, cfg.CompletionPerMinute, cfg.CompletionPerHour)
	trending := NewTrendingTracker(trendingStore)
	throttle := NewThrottle()
	topics := NewTopicMemory()
	history := NewConvHistory()
	mood := NewMoodClock(time.Now())
	cache := NewReplyCache()

	return &Engine{
		cfg:       cfg,
		transport: transport,
		pipeline:  NewPipeline(cfg.Pipeline, transport.SelfID(), trending, throttle, history),
		producer:  NewProducer(provider, governors, cache, trending, topics, mood, cfg.Phrases, cfg.Producer),
		delivery:  NewDelivery(transport, governors, cfg.Delivery),
		governors: governors,
		trending:  trending,
		history:   history,
		recent:    NewRecentReplies(cfg.Phrases.Synonyms),
		contexts:  contexts,
		sleep:     time.Sleep,
	}
}

// Conversations exposes every conversation the engine has observed topics in,
// for the storage pruner.
func (e *Engine) Conversations() []string {
	return e.trending.Conversations()
}

// HandleMessage processes one inbound message end to end. It never returns an
// error: every failure is logged and swallowed so one bad message cannot take
// the transport loop down.
func (e *Engine) HandleMessage(ctx context.Context, msg chat.Message) {
	now := time.Now()
	verdict := e.pipeline.Decide(msg, now)

	// Snapshot history before recording the current message so the prompt does
	// not see it twice.
	hist := e.history.Recent(msg.ConversationID, e.cfg.Producer.HistoryLimit)
	if verdict.ContentOK {
		e.history.Push(msg.ConversationID, HistoryMessage{
			MessageID: msg.MessageID,
			Name:      msg.SenderName,
			Text:      msg.Text,
			At:        now,
		})
	}

	switch verdict.Kind {
	case VerdictSkip:
		if verdict.Reason != "no_engage" {
			log.Printf("[MIND] skip conversation=%s reason=%s", msg.ConversationID, verdict.Reason)
		}
		return
	case VerdictReactOnly:
		if err := e.delivery.SendReaction(ctx, msg.ConversationID, msg.MessageID, verdict.Sentiment); err != nil {
			log.Printf("[ERR] reaction failed: %v", err)
		}
		e.bumpUser(msg, now)
		return
	}

	e.respond(ctx, msg, verdict, hist, now)
}

func (e *Engine) respond(ctx context.Context, msg chat.Message, verdict Verdict, hist []HistoryMessage, now time.Time) {
	text := strings.ToLower(msg.Text)

	var image []byte
	if msg.HasMedia {
		// Pretend to look at the picture first.
		e.sleep(randomDuration(2*time.Second, 4*time.Second))
		b, err := e.transport.DownloadMedia(ctx, msg)
		if err != nil {
			log.Printf("[ERR] media download failed: %v", err)
		} else {
			image = b
		}
	}

	// Hesitate like someone who just noticed the message.
	if verdict.Targeted {
		e.sleep(randomDuration(2*time.Second, 5*time.Second))
	} else {
		e.sleep(randomDuration(4*time.Second, 10*time.Second))
	}

	myPrev, _ := e.history.FindMine(msg.ConversationID, msg.ReplyToID)
	reply := e.producer.Resolve(ctx, Request{
		ConversationID: msg.ConversationID,
		Text:           text,
		Targeted:       verdict.Targeted,
		HasMedia:       msg.HasMedia,
		Image:          image,
		MyPreviousMsg:  myPrev,
		History:        hist,
	})
	log.Printf("[MIND] reply source=%s conversation=%s", reply.Source, msg.ConversationID)

	if reply.Sticker {
		if err := e.delivery.SendSticker(ctx, msg.ConversationID, verdict.ReplyTo); err != nil {
			log.Printf("[ERR] sticker failed: %v", err)
		}
		if len([]rune(reply.Text)) <= 2 {
			e.bumpUser(msg, now)
			return
		}
	}

	final := e.recent.Diversify(reply.Text)
	sentID, sentText, err := e.delivery.SendReply(ctx, msg.ConversationID, final, verdict.ReplyTo)
	if err != nil {
		log.Printf("[ERR] send failed: %v", err)
		return
	}
	if sentID == "" {
		// Skip-turn fired, nothing went out.
		return
	}

	e.history.Push(msg.ConversationID, HistoryMessage{
		MessageID: sentID,
		Name:      e.cfg.SelfName,
		Text:      sentText,
		Mine:      true,
		At:        time.Now(),
	})

	if reply.Reaction != "" && rand.Float64() < e.cfg.ReactionTagProbability {
		if err := e.delivery.SendReaction(ctx, msg.ConversationID, msg.MessageID, reply.Reaction); err != nil {
			log.Printf("[ERR] reaction failed: %v", err)
		}
	}

	e.bumpUser(msg, now)
}

// bumpUser persists the sender's interaction snapshot, best-effort.
func (e *Engine) bumpUser(msg chat.Message, now time.Time) {
	if e.contexts == nil {
		return
	}
	text := strings.ToLower(msg.Text)
	topic, _ := e.trending.TopTopic(msg.ConversationID, now)
	if topic == "" {
		if tokens := TopicTokens(text); len(tokens) > 0 {
			topic = tokens[0]
		}
	}
	sentiment := string(ClassifySentiment(text))
	if err := e.contexts.BumpUser(msg.ConversationID, msg.SenderID, topic, sentiment, now); err != nil {
		log.Printf("[ERR] user context save failed: %v", err)
	}
}
