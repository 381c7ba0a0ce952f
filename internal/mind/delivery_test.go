package mind

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDelivery(ft *fakeTransport, cfg DeliveryConfig) *Delivery {
	d := NewDelivery(ft, NewGovernors(20, 10, 100), cfg)
	d.sleep = func(time.Duration) {}
	return d
}

// countWaits replaces the token acquisition hook and reports how often it ran.
func countWaits(d *Delivery) *int {
	n := new(int)
	d.wait = func(context.Context) error {
		*n++
		return nil
	}
	return n
}

func TestSendReplyPlain(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{})

	id, sent, err := d.SendReply(context.Background(), "c1", "oke ngon nha", "orig")
	require.NoError(t, err)
	require.Equal(t, "m1", id)
	require.Equal(t, "oke ngon nha", sent)

	require.Equal(t, 1, ft.typings)
	require.Len(t, ft.sent, 1)
	require.Equal(t, "c1", ft.sent[0].conversationID)
	require.Equal(t, "orig", ft.sent[0].replyToID)
	require.Empty(t, ft.edits)
}

func TestSendReplyOneTokenPerTransportAction(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{})
	waits := countWaits(d)

	// Plain path: typing indicator + send.
	_, _, err := d.SendReply(context.Background(), "c1", "oke ngon nha", "")
	require.NoError(t, err)
	require.Equal(t, 2, *waits)
}

func TestSendReplyCorrectionTokenPerAction(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{CorrectionProbability: 1})
	waits := countWaits(d)

	// Correction path: typing indicator + draft send + edit.
	_, _, err := d.SendReply(context.Background(), "c1", "kèo này thơm lắm nha anh em", "")
	require.NoError(t, err)
	require.Equal(t, 3, *waits)
}

func TestSendReplySkipTurnTakesOneToken(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{SkipProbability: 1})
	waits := countWaits(d)

	_, _, err := d.SendReply(context.Background(), "c1", "oke ngon nha", "")
	require.NoError(t, err)
	require.Equal(t, 1, *waits)
}

func TestSendReplySkipTurn(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{SkipProbability: 1})

	id, sent, err := d.SendReply(context.Background(), "c1", "oke ngon nha", "")
	require.NoError(t, err)
	require.Empty(t, id)
	require.Empty(t, sent)

	// The typing indicator still fires; the message does not.
	require.Equal(t, 1, ft.typings)
	require.Empty(t, ft.sent)
}

func TestSendReplyCorrection(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{CorrectionProbability: 1})

	text := "kèo này thơm lắm nha anh em"
	id, sent, err := d.SendReply(context.Background(), "c1", text, "")
	require.NoError(t, err)
	require.Equal(t, "m1", id)
	require.Equal(t, text, sent)

	// First a truncated draft goes out, then the edit restores the full text.
	require.Len(t, ft.sent, 1)
	draft := ft.sent[0].text
	require.Less(t, len([]rune(draft)), len([]rune(text)))
	require.True(t, len([]rune(draft)) >= len([]rune(text))-3)

	require.Len(t, ft.edits, 1)
	require.Equal(t, "m1", ft.edits[0].messageID)
	require.Equal(t, text, ft.edits[0].text)
}

func TestApplyTyposDisabled(t *testing.T) {
	d := newTestDelivery(newFakeTransport(), DeliveryConfig{TypoProbability: 0})
	require.Equal(t, "không được vậy", d.ApplyTypos("không được vậy"))
}

func TestApplyTyposDegradesText(t *testing.T) {
	d := newTestDelivery(newFakeTransport(), DeliveryConfig{TypoProbability: 1})
	// Every rule has a match in this text, so one of them always fires.
	text := "đ ư ơ giờ được không vậy thế"
	for i := 0; i < 20; i++ {
		require.NotEqual(t, text, d.ApplyTypos(text))
	}
}

func TestApplyTyposFirstOccurrenceOnly(t *testing.T) {
	d := newTestDelivery(newFakeTransport(), DeliveryConfig{TypoProbability: 1})
	got := d.ApplyTypos("không không")
	require.Contains(t, []string{"ko không", "không không"}, got)
	require.NotEqual(t, "ko ko", got)
}

func TestSendReactionMatchesSentiment(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{})

	require.NoError(t, d.SendReaction(context.Background(), "c1", "m9", SentimentFunny))
	require.Len(t, ft.reactions, 1)
	require.Equal(t, "m9", ft.reactions[0].messageID)
	require.Contains(t, reactionEmojis[SentimentFunny], ft.reactions[0].text)
}

func TestSendReactionUnknownSentimentFallsBackNeutral(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{})

	require.NoError(t, d.SendReaction(context.Background(), "c1", "m9", Sentiment("???")))
	require.Len(t, ft.reactions, 1)
	require.Contains(t, reactionEmojis[SentimentNeutral], ft.reactions[0].text)
}

func TestSendSticker(t *testing.T) {
	ft := newFakeTransport()
	d := newTestDelivery(ft, DeliveryConfig{})

	require.NoError(t, d.SendSticker(context.Background(), "c1", "orig"))
	require.Len(t, ft.stickers, 1)
	require.Equal(t, "orig", ft.stickers[0].replyToID)
	require.Contains(t, stickerEmojis, ft.stickers[0].text)
}
