package mind

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"teobot/internal/ai"
)

func newTestProducer(provider ai.Provider, completionPerHour int) *Producer {
	cfg := DefaultProducerConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.ThinkingProbability = 0
	cfg.FollowUpProbability = 0
	cfg.FollowUpTopicProbability = 0
	p := NewProducer(
		provider,
		NewGovernors(20, 10, completionPerHour),
		NewReplyCache(),
		NewTrendingTracker(nil),
		NewTopicMemory(),
		NewMoodClock(time.Now()),
		DefaultPhrases(),
		cfg,
	)
	p.wait = func(context.Context, time.Duration) error { return nil }
	return p
}

func TestResolveRuleShortCircuits(t *testing.T) {
	provider := &stubProvider{}
	p := newTestProducer(provider, 100)

	reply := p.Resolve(context.Background(), Request{
		ConversationID: "c1",
		Text:           "kèo gì hôm nay",
	})
	require.Equal(t, "rule", reply.Source)
	require.Regexp(t, matchTextRe, reply.Text)
	require.Zero(t, provider.callCount())
}

func TestResolveCacheHit(t *testing.T) {
	provider := &stubProvider{}
	p := newTestProducer(provider, 100)
	p.cache.Put("mai đi đâu chơi", "uh tính sau", time.Now())

	reply := p.Resolve(context.Background(), Request{
		ConversationID: "c1",
		Text:           "mai đi đâu chơi",
	})
	require.Equal(t, "cache", reply.Source)
	require.Equal(t, "uh tính sau", reply.Text)
	require.Zero(t, provider.callCount())
}

func TestResolveTargetedSkipsRuleAndCache(t *testing.T) {
	provider := &stubProvider{results: []stubResult{{out: "oke ngon nha"}}}
	p := newTestProducer(provider, 100)
	p.cache.Put("kèo gì hôm nay", "cached", time.Now())

	reply := p.Resolve(context.Background(), Request{
		ConversationID: "c1",
		Text:           "kèo gì hôm nay",
		Targeted:       true,
	})
	require.Equal(t, "completion", reply.Source)
	require.Equal(t, 1, provider.callCount())
}

func TestResolveQuotaExhaustedNeverCallsProvider(t *testing.T) {
	provider := &stubProvider{}
	p := newTestProducer(provider, 0)

	reply := p.Resolve(context.Background(), Request{
		ConversationID: "c1",
		Text:           "mai đi đâu chơi",
	})
	require.Equal(t, "fallback", reply.Source)
	require.NotEmpty(t, reply.Text)
	require.Zero(t, provider.callCount())
}

func TestResolveRetriesTransientErrors(t *testing.T) {
	provider := &stubProvider{results: []stubResult{
		{err: &ai.HTTPError{Status: 500}},
		{out: "oke ngon nha"},
	}}
	p := newTestProducer(provider, 100)

	reply := p.Resolve(context.Background(), Request{
		ConversationID: "c1",
		Text:           "mai đi đâu chơi",
	})
	require.Equal(t, "completion", reply.Source)
	require.Equal(t, "oke ngon nha", reply.Text)
	require.Equal(t, 2, provider.callCount())
}

func TestResolveQuotaErrorNoRetry(t *testing.T) {
	provider := &stubProvider{results: []stubResult{{err: ai.ErrQuota}}}
	p := newTestProducer(provider, 100)

	reply := p.Resolve(context.Background(), Request{
		ConversationID: "c1",
		Text:           "mai đi đâu chơi",
	})
	require.Equal(t, "fallback", reply.Source)
	require.NotEmpty(t, reply.Text)
	require.Equal(t, 1, provider.callCount())
}

func TestResolveGivesUpAfterMaxAttempts(t *testing.T) {
	provider := &stubProvider{results: []stubResult{{err: &ai.HTTPError{Status: 503}}}}
	p := newTestProducer(provider, 100)

	reply := p.Resolve(context.Background(), Request{
		ConversationID: "c1",
		Text:           "mai đi đâu chơi",
	})
	require.Equal(t, "fallback", reply.Source)
	require.Equal(t, p.cfg.MaxAttempts, provider.callCount())
}

func TestResolveCachesCompletion(t *testing.T) {
	provider := &stubProvider{results: []stubResult{{out: "oke ngon nha"}}}
	p := newTestProducer(provider, 100)

	p.Resolve(context.Background(), Request{ConversationID: "c1", Text: "mai đi đâu chơi"})

	cached, ok := p.cache.Get("mai đi đâu chơi", time.Now())
	require.True(t, ok)
	require.Equal(t, "oke ngon nha", cached)
}

func TestResolveMediaNotCached(t *testing.T) {
	provider := &stubProvider{results: []stubResult{{out: "ảnh đẹp đấy"}}}
	p := newTestProducer(provider, 100)

	reply := p.Resolve(context.Background(), Request{
		ConversationID: "c1",
		Text:           "nhìn này",
		HasMedia:       true,
	})
	require.Equal(t, "completion", reply.Source)

	_, ok := p.cache.Get("nhìn này", time.Now())
	require.False(t, ok)
}

func TestFinalizeReplyTags(t *testing.T) {
	phrases := DefaultPhrases()

	r := finalizeReply("kèo ngon đấy [vui]", phrases)
	require.Equal(t, SentimentPositive, r.Reaction)
	require.False(t, r.Sticker)
	require.Equal(t, "kèo ngon đấy", r.Text)

	r = finalizeReply("[sticker]", phrases)
	require.True(t, r.Sticker)
	require.Empty(t, r.Text)

	r = finalizeReply("Chuẩn Luôn!!!", phrases)
	require.Equal(t, "chuẩn luôn", r.Text)

	// Degenerate output falls back to a casual phrase.
	r = finalizeReply("?!", phrases)
	require.Equal(t, "fallback", r.Source)
	require.NotEmpty(t, r.Text)
}
