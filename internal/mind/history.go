package mind

import (
	"sync"
)

const historyCapacity = 40

// ConvHistory keeps a bounded per-conversation buffer of recent messages,
// including the bot's own replies. Oldest entries fall off on overflow.
type ConvHistory struct {
	mu     sync.RWMutex
	byConv map[string][]HistoryMessage
}

func NewConvHistory() *ConvHistory {
	return &ConvHistory{byConv: make(map[string][]HistoryMessage)}
}

func (h *ConvHistory) Push(conversationID string, m HistoryMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	buf := append(h.byConv[conversationID], m)
	if len(buf) > historyCapacity {
		buf = buf[len(buf)-historyCapacity:]
	}
	h.byConv[conversationID] = buf
}

// Recent returns a copy of up to n most recent messages, oldest first.
func (h *ConvHistory) Recent(conversationID string, n int) []HistoryMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	buf := h.byConv[conversationID]
	if len(buf) > n {
		buf = buf[len(buf)-n:]
	}
	out := make([]HistoryMessage, len(buf))
	copy(out, buf)
	return out
}

// FindMine returns the text of one of the bot's own messages by id, for the
// "replying to me" detection and the reply-context prompt line.
func (h *ConvHistory) FindMine(conversationID, messageID string) (string, bool) {
	if messageID == "" {
		return "", false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, m := range h.byConv[conversationID] {
		if m.Mine && m.MessageID == messageID {
			return m.Text, true
		}
	}
	return "", false
}
