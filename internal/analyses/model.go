package analyses

import (
	"time"

	"wsid-backend/internal/analyses/ruleengine"
)

// Engine labels recording which path produced a result.
const (
	EngineLocal    = "local"
	EngineRemote   = "remote"
	EngineFallback = "fallback"
)

// Analysis is one persisted history record: the input text plus the
// structured result and which engine produced it.
type Analysis struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	DocumentID string            `json:"documentId,omitempty"`
	SourceText string            `json:"sourceText"`
	Result     ruleengine.Result `json:"result"`
	Engine     string            `json:"engine"`
	CreatedAt  time.Time         `json:"createdAt"`
}
