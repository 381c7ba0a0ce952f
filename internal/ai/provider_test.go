package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTransient(t *testing.T) {
	require.False(t, IsTransient(nil))
	require.False(t, IsTransient(ErrQuota))
	require.False(t, IsTransient(errors.New("bad request")))
	require.False(t, IsTransient(&HTTPError{Status: 400}))

	require.True(t, IsTransient(&HTTPError{Status: 429}))
	require.True(t, IsTransient(&HTTPError{Status: 500}))
	require.True(t, IsTransient(&HTTPError{Status: 503}))
	require.True(t, IsTransient(context.DeadlineExceeded))
	require.True(t, IsTransient(errors.New("dial tcp: connection refused")))
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("pollinations")
	require.NoError(t, err)
	require.IsType(t, &PollinationsProvider{}, p)

	p, err = NewProvider("g4f:gpt-oss-120b")
	require.NoError(t, err)
	require.IsType(t, &G4FProvider{}, p)

	_, err = NewProvider("carrier-pigeon")
	require.Error(t, err)
}

func TestNewG4FProviderEngineSpecs(t *testing.T) {
	p := NewG4FProvider("g4f:groq/qwen/qwen3-32b")
	require.Equal(t, "https://g4f.dev/api/groq", p.baseURL)
	require.Equal(t, "qwen/qwen3-32b", p.model)

	p = NewG4FProvider("g4f:ollama/gpt-oss:20b")
	require.Equal(t, "https://g4f.dev/api/ollama", p.baseURL)
	require.Equal(t, "gpt-oss:20b", p.model)

	p = NewG4FProvider("g4f:gpt-oss-120b")
	require.Equal(t, "https://g4f.dev/api/gpt-oss-120b", p.baseURL)
	require.Equal(t, "gpt-oss-120b", p.model)
}

func TestCleanReply(t *testing.T) {
	require.Equal(t, "oke ngon", cleanReply("  oke ngon  "))
	require.Equal(t, "oke ngon", cleanReply("<think>reasoning here</think> oke ngon"))
	require.Equal(t, "oke ngon", cleanReply(`"oke ngon"`))
	require.Equal(t, "oke ngon", cleanReply("“oke ngon”"))
}

func TestIsGarbageResponse(t *testing.T) {
	require.True(t, isGarbageResponse("<HTML><body>error</body>"))
	require.True(t, isGarbageResponse("Request not allowed"))
	require.True(t, isGarbageResponse(" x "))
	require.False(t, isGarbageResponse("oke ngon nha"))
}
