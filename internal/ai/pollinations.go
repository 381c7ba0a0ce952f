package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type PollinationsProvider struct {
	client *http.Client
}

func NewPollinationsProvider() *PollinationsProvider {
	return &PollinationsProvider{
		client: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

func (p *PollinationsProvider) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	payload := map[string]any{
		"model":    "openai",
		"messages": toWire(messages),
		"private":  true,
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}
	if opts.Temperature > 0 {
		payload["temperature"] = opts.Temperature
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		"https://text.pollinations.ai/openai",
		bytes.NewReader(data),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusPaymentRequired {
			return "", fmt.Errorf("%w: status=%d", ErrQuota, resp.StatusCode)
		}
		return "", &HTTPError{Status: resp.StatusCode, Body: truncate(body)}
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return "", fmt.Errorf("pollinations returned html")
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("pollinations empty choices")
	}

	reply := cleanReply(parsed.Choices[0].Message.Content)
	if isGarbageResponse(reply) {
		return "", fmt.Errorf("pollinations returned garbage")
	}
	return reply, nil
}
