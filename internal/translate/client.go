package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wsid-backend/internal/analyses/ruleengine"
)

// DefaultBaseURL is the MyMemory public endpoint.
const DefaultBaseURL = "https://api.mymemory.translated.net"

// ErrEmptyText indicates nothing was left to translate after cleanup.
var ErrEmptyText = errors.New("nothing to translate")

// Client calls the MyMemory translation API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client. An empty baseURL falls back to the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.Number `json:"responseStatus"`
	ResponseDetails string      `json:"responseDetails"`
}

// Translate converts English text to the target language. Highlight markup is
// stripped before sending so the provider sees plain text only.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	plain := strings.TrimSpace(ruleengine.StripHighlights(text))
	if plain == "" {
		return "", ErrEmptyText
	}
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" || target == "en" {
		return plain, nil
	}

	q := url.Values{}
	q.Set("q", plain)
	q.Set("langpair", "en|"+target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate request: status %d", resp.StatusCode)
	}

	var body myMemoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("translate response: %w", err)
	}
	if status, _ := body.ResponseStatus.Int64(); status != 0 && status != http.StatusOK {
		return "", fmt.Errorf("translate response: status %d: %s", status, body.ResponseDetails)
	}
	out := strings.TrimSpace(body.ResponseData.TranslatedText)
	if out == "" {
		return "", errors.New("translate response: empty translation")
	}
	return out, nil
}
