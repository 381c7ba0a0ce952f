// Package chat defines the transport boundary: the inbound message shape the
// engine consumes and the outbound actions it may take. Concrete bindings
// (internal/discord) implement Transport; the engine never imports them.
package chat

import (
	"context"
	"time"
)

// Message is one inbound group-chat message. Immutable, consumed once.
type Message struct {
	ConversationID string
	MessageID      string
	ReplyToID      string // id of the message this one replies to, "" if none
	SenderID       string
	SenderName     string
	Text           string
	HasMedia       bool
	MediaURL       string
	IsDirect       bool // one-to-one conversation, never engaged
	ReceivedAt     time.Time
}

// ThreadID identifies the sub-thread a message belongs to. Messages without a
// reply chain share the conversation root thread.
func (m Message) ThreadID() string {
	if m.ReplyToID != "" {
		return m.ReplyToID
	}
	return "root"
}

// Transport is the outbound side of the chat platform. All methods report
// failures as errors; none may panic. Implementations need not be rate-limited,
// the engine acquires its own governor before every call.
type Transport interface {
	// SendMessage sends text, optionally as a reply, and returns the new message id.
	SendMessage(ctx context.Context, conversationID, text, replyToID string) (string, error)
	// EditMessage replaces the text of a previously sent message.
	EditMessage(ctx context.Context, conversationID, messageID, text string) error
	// SendTyping emits an ephemeral typing indicator.
	SendTyping(ctx context.Context, conversationID string) error
	// SendReaction attaches a lightweight emoji reaction to a message.
	SendReaction(ctx context.Context, conversationID, messageID, emoji string) error
	// SendSticker sends a sticker-equivalent payload (an oversized emoji works).
	SendSticker(ctx context.Context, conversationID, emoji, replyToID string) error
	// DownloadMedia fetches the media attachment of an inbound message.
	DownloadMedia(ctx context.Context, msg Message) ([]byte, error)
	// SelfID returns the transport identity of the bot itself.
	SelfID() string
}
