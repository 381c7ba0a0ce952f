package mind

import (
	"sync"
	"time"
)

// Throttle enforces the minimum interval between untargeted replies in the
// same (conversation, thread). Entries only ever move forward in time.
type Throttle struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewThrottle() *Throttle {
	return &Throttle{last: make(map[string]time.Time)}
}

func throttleKey(conversationID, threadID string) string {
	return conversationID + "_" + threadID
}

// TooSoon reports whether a reply in this thread would violate minInterval.
func (t *Throttle) TooSoon(conversationID, threadID string, minInterval time.Duration, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.last[throttleKey(conversationID, threadID)]
	return ok && now.Sub(last) < minInterval
}

// MarkReplied records a reply. Must be called before any downstream I/O for
// the same verdict so concurrent handlers cannot both pass TooSoon.
func (t *Throttle) MarkReplied(conversationID, threadID string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := throttleKey(conversationID, threadID)
	if existing, ok := t.last[key]; ok && !now.After(existing) {
		return
	}
	t.last[key] = now
}

// TopicMemory bounds how often the engine appends a follow-up question per
// conversation and remembers the last topic it engaged with.
type TopicMemory struct {
	mu sync.Mutex
	m  map[string]*topicEntry
}

type topicEntry struct {
	lastTopic      string
	questionsAsked int
}

func NewTopicMemory() *TopicMemory {
	return &TopicMemory{m: make(map[string]*topicEntry)}
}

func (tm *TopicMemory) entry(conversationID string) *topicEntry {
	e, ok := tm.m[conversationID]
	if !ok {
		e = &topicEntry{}
		tm.m[conversationID] = e
	}
	return e
}

func (tm *TopicMemory) QuestionsAsked(conversationID string) int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.entry(conversationID).questionsAsked
}

func (tm *TopicMemory) NoteQuestion(conversationID string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.entry(conversationID).questionsAsked++
}

func (tm *TopicMemory) ResetQuestions(conversationID string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.entry(conversationID).questionsAsked = 0
}

func (tm *TopicMemory) SetLastTopic(conversationID, topic string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.entry(conversationID).lastTopic = topic
}

func (tm *TopicMemory) LastTopic(conversationID string) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.entry(conversationID).lastTopic
}
