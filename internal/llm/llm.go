package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts smart-analyzer providers. Implementations send the
// normalized text with a fixed system instruction and return the provider's
// raw JSON payload; shape validation happens in the caller.
type Client interface {
	AnalyzeText(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
}

// AnalyzeInput captures the inputs for one remote analysis call.
type AnalyzeInput struct {
	Text string
}

// ErrAllKeysExhausted is the distinguished condition reported when every
// configured credential is rate-limited or out of quota. Callers surface it
// instead of silently falling back, since fallback would mask an outage.
var ErrAllKeysExhausted = errors.New("all API keys exhausted")
