package mind

import (
	"context"
	"fmt"
	"sync"

	"teobot/internal/ai"
	"teobot/internal/chat"
)

type sentRecord struct {
	conversationID string
	text           string
	replyToID      string
	messageID      string
}

// fakeTransport records every outbound action and hands out sequential ids.
type fakeTransport struct {
	mu        sync.Mutex
	selfID    string
	nextID    int
	sent      []sentRecord
	edits     []sentRecord
	reactions []sentRecord
	stickers  []sentRecord
	typings   int
	media     []byte
	mediaErr  error
	sendErr   error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{selfID: "self"}
}

func (f *fakeTransport) SendMessage(_ context.Context, conversationID, text, replyToID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.nextID++
	id := fmt.Sprintf("m%d", f.nextID)
	f.sent = append(f.sent, sentRecord{conversationID, text, replyToID, id})
	return id, nil
}

func (f *fakeTransport) EditMessage(_ context.Context, conversationID, messageID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, sentRecord{conversationID: conversationID, messageID: messageID, text: text})
	return nil
}

func (f *fakeTransport) SendTyping(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typings++
	return nil
}

func (f *fakeTransport) SendReaction(_ context.Context, conversationID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, sentRecord{conversationID: conversationID, messageID: messageID, text: emoji})
	return nil
}

func (f *fakeTransport) SendSticker(_ context.Context, conversationID, emoji, replyToID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stickers = append(f.stickers, sentRecord{conversationID: conversationID, text: emoji, replyToID: replyToID})
	return nil
}

func (f *fakeTransport) DownloadMedia(context.Context, chat.Message) ([]byte, error) {
	return f.media, f.mediaErr
}

func (f *fakeTransport) SelfID() string { return f.selfID }

type stubResult struct {
	out string
	err error
}

// stubProvider replays a scripted sequence of results; the last entry repeats.
type stubProvider struct {
	mu      sync.Mutex
	results []stubResult
	calls   int
}

func (p *stubProvider) Generate(context.Context, []ai.Message, ai.Options) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	p.calls++
	if len(p.results) == 0 {
		return "oke ngon nha", nil
	}
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	return p.results[i].out, p.results[i].err
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
