// Package discord binds the responder engine to Discord. It translates gateway
// events into chat.Message values and implements chat.Transport over the REST
// API.
package discord

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"teobot/internal/chat"
)

// maxMediaBytes caps attachment downloads.
const maxMediaBytes = 8 << 20

// Handler consumes inbound messages. The engine implements it.
type Handler interface {
	HandleMessage(ctx context.Context, msg chat.Message)
}

// Bot is the Discord gateway loop plus the chat.Transport implementation.
type Bot struct {
	dg     *discordgo.Session
	client *http.Client

	mu      sync.RWMutex
	handler Handler
	selfID  string
}

func NewBot(token string) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return &Bot{dg: dg, client: http.DefaultClient}, nil
}

// SetHandler installs the message consumer. Must be called before Run.
func (b *Bot) SetHandler(h Handler) {
	b.mu.Lock()
	b.handler = h
	b.mu.Unlock()
}

// Connect opens the gateway session and resolves the bot's own identity.
// Call before constructing anything that needs SelfID.
func (b *Bot) Connect() error {
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	if u := b.dg.State.User; u != nil {
		b.mu.Lock()
		b.selfID = u.ID
		b.mu.Unlock()
	}
	return nil
}

// Run blocks until ctx is cancelled, then closes the session.
func (b *Bot) Run(ctx context.Context) error {
	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return b.dg.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.mu.Lock()
	b.selfID = r.User.ID
	b.mu.Unlock()
	log.Printf("[INFO] Logged in as %s (%s)", r.User.Username, r.User.ID)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	b.mu.RLock()
	handler := b.handler
	b.mu.RUnlock()
	if handler == nil || m.Author == nil {
		return
	}

	msg := chat.Message{
		ConversationID: m.ChannelID,
		MessageID:      m.ID,
		SenderID:       m.Author.ID,
		SenderName:     senderName(m),
		Text:           m.Content,
		IsDirect:       m.GuildID == "",
		ReceivedAt:     m.Timestamp,
	}
	if m.MessageReference != nil {
		msg.ReplyToID = m.MessageReference.MessageID
	}
	for _, a := range m.Attachments {
		if strings.HasPrefix(a.ContentType, "image/") {
			msg.HasMedia = true
			msg.MediaURL = a.URL
			break
		}
	}

	// Each message gets its own goroutine; the engine paces itself.
	go handler.HandleMessage(context.Background(), msg)
}

func senderName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	return m.Author.Username
}

// SelfID implements chat.Transport.
func (b *Bot) SelfID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selfID
}

// SendMessage implements chat.Transport.
func (b *Bot) SendMessage(ctx context.Context, conversationID, text, replyToID string) (string, error) {
	send := &discordgo.MessageSend{Content: text}
	if replyToID != "" {
		send.Reference = &discordgo.MessageReference{
			MessageID: replyToID,
			ChannelID: conversationID,
		}
	}
	m, err := b.dg.ChannelMessageSendComplex(conversationID, send, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

// EditMessage implements chat.Transport.
func (b *Bot) EditMessage(ctx context.Context, conversationID, messageID, text string) error {
	_, err := b.dg.ChannelMessageEdit(conversationID, messageID, text, discordgo.WithContext(ctx))
	return err
}

// SendTyping implements chat.Transport.
func (b *Bot) SendTyping(ctx context.Context, conversationID string) error {
	return b.dg.ChannelTyping(conversationID, discordgo.WithContext(ctx))
}

// SendReaction implements chat.Transport.
func (b *Bot) SendReaction(ctx context.Context, conversationID, messageID, emoji string) error {
	return b.dg.MessageReactionAdd(conversationID, messageID, emoji, discordgo.WithContext(ctx))
}

// SendSticker implements chat.Transport. Discord has no free-form sticker send,
// an oversized emoji reply fills the same register.
func (b *Bot) SendSticker(ctx context.Context, conversationID, emoji, replyToID string) error {
	_, err := b.SendMessage(ctx, conversationID, emoji, replyToID)
	return err
}

// DownloadMedia implements chat.Transport.
func (b *Bot) DownloadMedia(ctx context.Context, msg chat.Message) ([]byte, error) {
	if msg.MediaURL == "" {
		return nil, fmt.Errorf("message %s has no media url", msg.MessageID)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, msg.MediaURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media download status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes))
}
