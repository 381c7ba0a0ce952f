package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type G4FProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewG4FProvider parses an engine spec of the form:
//
//	g4f:gpt-oss-120b
//	g4f:groq/qwen/qwen3-32b
//	g4f:ollama/gpt-oss:20b
func NewG4FProvider(engine string) *G4FProvider {
	parts := strings.SplitN(engine, ":", 2)
	if len(parts) != 2 {
		parts = []string{"g4f", "gpt-oss-120b"}
	}
	target := parts[1]

	var base, model string
	switch {
	case strings.HasPrefix(target, "groq/"):
		base = "https://g4f.dev/api/groq"
		model = strings.TrimPrefix(target, "groq/")
	case strings.HasPrefix(target, "ollama/"):
		base = "https://g4f.dev/api/ollama"
		model = strings.TrimPrefix(target, "ollama/")
	default:
		base = "https://g4f.dev/api/gpt-oss-120b"
		model = target
	}

	return &G4FProvider{
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// wireMessage mirrors the OpenAI chat format. Content becomes a part list when
// an image rides along.
type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type wirePart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *wireImageURL `json:"image_url,omitempty"`
}

type wireImageURL struct {
	URL string `json:"url"`
}

func toWire(messages []Message) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		if len(m.Image) == 0 {
			out = append(out, wireMessage{Role: m.Role, Content: m.Content})
			continue
		}
		parts := []wirePart{}
		if m.Content != "" {
			parts = append(parts, wirePart{Type: "text", Text: m.Content})
		}
		encoded := base64.StdEncoding.EncodeToString(m.Image)
		parts = append(parts, wirePart{
			Type:     "image_url",
			ImageURL: &wireImageURL{URL: "data:image/jpeg;base64," + encoded},
		})
		out = append(out, wireMessage{Role: m.Role, Content: parts})
	}
	return out
}

func (p *G4FProvider) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	payload := map[string]any{
		"model":    p.model,
		"messages": toWire(messages),
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		payload["temperature"] = opts.Temperature
	}
	bodyBytes, _ := json.Marshal(payload)

	reqCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: status=%d", ErrQuota, resp.StatusCode)
		}
		return "", &HTTPError{Status: resp.StatusCode, Body: truncate(respBody)}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal: %w body=%s", err, truncate(respBody))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("g4f empty choices")
	}

	reply := cleanReply(parsed.Choices[0].Message.Content)
	if isGarbageResponse(reply) {
		return "", fmt.Errorf("g4f returned garbage")
	}
	return reply, nil
}
