package mind

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	cacheTTL      = 600 * time.Second
	cacheCapacity = 100
	recentReplies = 10
)

type cacheEntry struct {
	reply    string
	storedAt time.Time
}

// ReplyCache maps normalized message text to a previously produced reply.
// Expiry is lazy (checked on read) and capacity-based (oldest insertion evicted
// on write); both policies are deliberate — a stale entry may sit unevicted
// under low write volume but is never returned.
type ReplyCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string // insertion order, oldest first
}

func NewReplyCache() *ReplyCache {
	return &ReplyCache{entries: make(map[string]cacheEntry)}
}

// normalizeKey folds case and surrounding whitespace.
func normalizeKey(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}

func (c *ReplyCache) Get(text string, now time.Time) (string, bool) {
	key := normalizeKey(text)
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if now.Sub(e.storedAt) >= cacheTTL {
		delete(c.entries, key)
		return "", false
	}
	return e.reply, true
}

func (c *ReplyCache) Put(text, reply string, now time.Time) {
	key := normalizeKey(text)
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
		if len(c.order) > cacheCapacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	c.entries[key] = cacheEntry{reply: reply, storedAt: now}
}

// SynonymRule is one ordered substitution: the first rule whose key appears in
// a repeated reply is applied.
type SynonymRule struct {
	Key  string   `json:"key"`
	Alts []string `json:"alts"`
}

// RecentReplies is a bounded ring of the most recently sent replies, used to
// avoid sending the exact same line twice in a short span.
type RecentReplies struct {
	mu       sync.Mutex
	buf      []string
	synonyms []SynonymRule
}

func NewRecentReplies(synonyms []SynonymRule) *RecentReplies {
	return &RecentReplies{synonyms: synonyms}
}

// Diversify returns candidate unchanged when it was not recently sent; when it
// was, the first applicable synonym substitution is applied. The returned reply
// is recorded either way.
func (r *RecentReplies) Diversify(candidate string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seen(candidate) {
		lower := strings.ToLower(candidate)
		for _, rule := range r.synonyms {
			if strings.Contains(lower, rule.Key) && len(rule.Alts) > 0 {
				variation := strings.ReplaceAll(lower, rule.Key, rule.Alts[rand.Intn(len(rule.Alts))])
				r.push(variation)
				return variation
			}
		}
	}
	r.push(candidate)
	return candidate
}

func (r *RecentReplies) seen(reply string) bool {
	for _, s := range r.buf {
		if s == reply {
			return true
		}
	}
	return false
}

func (r *RecentReplies) push(reply string) {
	r.buf = append(r.buf, reply)
	if len(r.buf) > recentReplies {
		r.buf = r.buf[len(r.buf)-recentReplies:]
	}
}
