package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"wsid-backend/internal/llm"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// Client implements llm.Client against the OpenRouter chat-completions API
// with ordered credential rotation. Keys flagged in the table are skipped;
// when no usable key remains the distinguished exhaustion error is returned.
type Client struct {
	table      *llm.KeyTable
	model      string
	appURL     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs an OpenRouter client over the given key table.
func NewClient(table *llm.KeyTable, model, appURL string) (*Client, error) {
	if table == nil || len(table.Keys()) == 0 {
		return nil, fmt.Errorf("at least one OpenRouter API key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenRouter")
	}
	return &Client{
		table:   table,
		model:   model,
		appURL:  appURL,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// AnalyzeText tries each usable credential in configured order, rotating on
// retryable failures and stopping at the first success or non-retryable
// error.
func (c *Client) AnalyzeText(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("empty input text")
	}

	for _, key := range c.table.Keys() {
		if !c.table.Usable(key) {
			continue
		}

		raw, err := c.analyzeOnce(ctx, key, input.Text)
		if err == nil {
			return raw, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryable(err) {
			return nil, err
		}

		if isRateLimit(err) {
			c.table.MarkRateLimited(key, err.Error())
		} else {
			c.table.MarkExhausted(key, err.Error())
		}
		log.Printf("openrouter key rotated after retryable failure: %v", err)
	}

	return nil, llm.ErrAllKeysExhausted
}

func (c *Client) analyzeOnce(ctx context.Context, key, text string) (json.RawMessage, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: llm.SystemPrompt},
			{Role: "user", Content: llm.BuildUserPrompt(text)},
		},
		Temperature:    &temp,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	if c.appURL != "" {
		req.Header.Set("HTTP-Referer", c.appURL)
		req.Header.Set("X-Title", "What Should I Do")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("openrouter request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("openrouter rate limit (429): %s", truncate(body))
	}
	if resp.StatusCode == http.StatusPaymentRequired {
		return nil, fmt.Errorf("openrouter credits exhausted (402): %s", truncate(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openrouter status %d: %s", resp.StatusCode, truncate(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("openrouter response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openrouter error (code %d): %s", parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openrouter response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	content = stripCodeFence(content)
	if content == "" {
		return nil, fmt.Errorf("openrouter response empty content")
	}
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("invalid JSON from OpenRouter")
	}
	return json.RawMessage(content), nil
}

// isRetryable reports whether a failure should rotate to the next key
// rather than abort the whole call.
func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429", "402", "credit", "quota", "rate limit", "exhausted", "insufficient",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func isRateLimit(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max]
	}
	return s
}

var _ llm.Client = (*Client)(nil)
