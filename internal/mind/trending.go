package mind

import (
	"log"
	"sync"
	"time"
)

const (
	trendingCapacity  = 20
	trendingFreshness = 300 * time.Second
	trendingMinCount  = 3
)

type trendEntry struct {
	word string
	at   time.Time
}

// TrendingStore is the optional durable backend for topic observations.
// Any error it returns degrades the tracker to memory-only behavior.
type TrendingStore interface {
	AppendTrending(conversationID, word string, at time.Time) error
	FetchTrending(conversationID string, window time.Duration, now time.Time) ([]string, error)
}

// TrendingTracker keeps a sliding word-frequency window per conversation.
// Each conversation holds a FIFO sequence of at most trendingCapacity entries;
// the oldest entry is evicted on overflow regardless of freshness.
type TrendingTracker struct {
	mu     sync.Mutex
	byConv map[string][]trendEntry
	store  TrendingStore // nil = memory only
}

func NewTrendingTracker(store TrendingStore) *TrendingTracker {
	return &TrendingTracker{
		byConv: make(map[string][]trendEntry),
		store:  store,
	}
}

// Record appends one word observation for a conversation.
func (t *TrendingTracker) Record(conversationID, word string, now time.Time) {
	t.mu.Lock()
	seq := append(t.byConv[conversationID], trendEntry{word: word, at: now})
	if len(seq) > trendingCapacity {
		seq = seq[len(seq)-trendingCapacity:]
	}
	t.byConv[conversationID] = seq
	t.mu.Unlock()

	if t.store != nil {
		if err := t.store.AppendTrending(conversationID, word, now); err != nil {
			log.Printf("[MIND] trending store append failed: %v", err)
		}
	}
}

// TopTopic returns the most frequent word among entries fresher than 300s,
// provided it was seen at least 3 times. Ties break toward the word seen
// first: a later word must be strictly more frequent to win.
func (t *TrendingTracker) TopTopic(conversationID string, now time.Time) (string, bool) {
	cutoff := now.Add(-trendingFreshness)

	t.mu.Lock()
	var fresh []string
	for _, e := range t.byConv[conversationID] {
		if e.at.After(cutoff) {
			fresh = append(fresh, e.word)
		}
	}
	t.mu.Unlock()

	// The store mirrors what Record already placed in memory, so merging the two
	// would count every observation twice. Consult the store only on a cold
	// start, when the ring holds nothing fresh.
	if len(fresh) == 0 && t.store != nil {
		stored, err := t.store.FetchTrending(conversationID, trendingFreshness, now)
		if err != nil {
			log.Printf("[MIND] trending store fetch failed: %v", err)
		} else {
			fresh = stored
		}
	}

	if len(fresh) == 0 {
		return "", false
	}

	counts := make(map[string]int, len(fresh))
	var topWord string
	var topCount int
	for _, w := range fresh {
		counts[w]++
		if counts[w] > topCount {
			topWord = w
			topCount = counts[w]
		}
	}
	if topCount < trendingMinCount {
		return "", false
	}
	return topWord, true
}

// Conversations returns every conversation id the tracker has seen.
func (t *TrendingTracker) Conversations() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.byConv))
	for id := range t.byConv {
		ids = append(ids, id)
	}
	return ids
}
