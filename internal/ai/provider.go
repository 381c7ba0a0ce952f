package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Message is one role-tagged content block sent to the completion backend.
// Image, when set, is attached inline (base64 data URL) for vision-capable models.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Image   []byte `json:"-"`
}

// Options bounds a single completion call.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Provider generates a completion for an ordered list of messages.
type Provider interface {
	Generate(ctx context.Context, messages []Message, opts Options) (string, error)
}

// ErrQuota marks a permanent quota/billing rejection. Callers must not retry it;
// the producer falls through to its literal fallbacks instead.
var ErrQuota = errors.New("completion quota exceeded")

// HTTPError carries the backend status code so retry logic can classify it.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("completion http %d: %s", e.Status, e.Body)
}

// IsTransient reports whether err is worth retrying: network/timeout failures
// and 5xx or 429 responses. Quota rejections are never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrQuota) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status == 429 || (httpErr.Status >= 500 && httpErr.Status < 600)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// http.Client wraps transport errors without a stable type
	s := err.Error()
	return strings.Contains(s, "connection refused") || strings.Contains(s, "EOF")
}

// NewProvider builds a Provider from an engine spec, e.g. "g4f:gpt-oss-120b"
// or "pollinations".
func NewProvider(engine string) (Provider, error) {
	switch {
	case engine == "pollinations":
		return NewPollinationsProvider(), nil
	case strings.HasPrefix(engine, "g4f"), engine == "":
		return NewG4FProvider(engine), nil
	default:
		return nil, fmt.Errorf("unsupported AI_ENGINE: %s", engine)
	}
}
