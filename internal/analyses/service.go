package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wsid-backend/internal/analyses/ruleengine"
	"wsid-backend/internal/llm"
	"wsid-backend/internal/shared/metrics"
	"wsid-backend/internal/shared/telemetry"
)

// Path-decision thresholds: input past any of these goes to the remote
// analyzer when one is configured.
const (
	remoteCharThreshold     = 280
	remoteWordThreshold     = 60
	remoteSentenceThreshold = 4
)

// Service orchestrates the analysis pipeline: normalize, decide path, run
// the remote analyzer or the rule engine, validate, highlight, persist.
type Service struct {
	Analyzer      *ruleengine.Analyzer
	LLM           llm.Client
	Keys          *llm.KeyTable
	Repo          Repo
	RemoteTimeout time.Duration
	Now           func() time.Time
}

// NewService wires a Service with defaults filled in. LLM may be nil for a
// local-only deployment.
func NewService(analyzer *ruleengine.Analyzer, client llm.Client, keys *llm.KeyTable, repo Repo, remoteTimeout time.Duration) *Service {
	if remoteTimeout <= 0 {
		remoteTimeout = 12 * time.Second
	}
	return &Service{
		Analyzer:      analyzer,
		LLM:           client,
		Keys:          keys,
		Repo:          repo,
		RemoteTimeout: remoteTimeout,
		Now:           time.Now,
	}
}

// Analyze runs the full pipeline for one input. Remote failures fall back
// to the rule engine; only under-length input and credential exhaustion
// surface as errors.
func (s *Service) Analyze(ctx context.Context, userID, text string) (Analysis, error) {
	return s.analyze(ctx, userID, text, false)
}

// AnalyzeFast bypasses the path decision and always runs the rule engine.
func (s *Service) AnalyzeFast(ctx context.Context, userID, text string) (Analysis, error) {
	return s.analyze(ctx, userID, text, true)
}

func (s *Service) analyze(ctx context.Context, userID, text string, forceLocal bool) (Analysis, error) {
	started := s.Now()
	metrics.IncAnalyzeRequest()
	cfg := s.Analyzer.Config()

	normalized := ruleengine.Normalize(text, cfg)
	if len(normalized) < ruleengine.MinInputLength {
		metrics.IncAnalyzeFailed()
		return Analysis{}, NewInputTooShort()
	}

	engine := EngineLocal
	var result ruleengine.Result
	remote := !forceLocal && s.LLM != nil && s.shouldUseRemote(normalized, cfg)

	if remote {
		raw, err := s.remoteAnalyze(ctx, normalized)
		if err == nil {
			result, err = normalizeRemoteResult(raw)
		}
		switch {
		case err == nil:
			engine = EngineRemote
			metrics.IncAnalyzeRemote()
		case errors.Is(err, llm.ErrAllKeysExhausted):
			metrics.IncKeysExhausted()
			metrics.IncAnalyzeFailed()
			return Analysis{}, NewAllKeysExhausted()
		default:
			// Terminal fallback: remote is never re-attempted.
			telemetry.Warn("analysis.remote_fallback", map[string]any{
				"user_id": userID,
				"error":   sanitizeError(err),
			})
			engine = EngineFallback
			metrics.IncAnalyzeFallback()
		}
	}

	if engine != EngineRemote {
		result = s.Analyzer.Analyze(normalized)
		if engine == EngineLocal {
			metrics.IncAnalyzeLocal()
		}
	}

	result.Summary = ruleengine.Highlight(result.Summary, cfg.HighlightPhrases)

	record := Analysis{
		ID:         uuid.NewString(),
		UserID:     userID,
		SourceText: text,
		Result:     result,
		Engine:     engine,
		CreatedAt:  s.Now().UTC(),
	}
	if s.Repo != nil {
		if err := s.Repo.Create(ctx, record); err != nil {
			telemetry.Warn("analysis.persist_failed", map[string]any{
				"analysis_id": record.ID,
				"error":       sanitizeError(err),
			})
		}
	}

	metrics.ObserveAnalyzeDurationMs(float64(s.Now().Sub(started)) / float64(time.Millisecond))
	return record, nil
}

// AnalyzeBatch runs the pipeline independently per item. Failures are
// isolated: a failed or panicking item is replaced with a local-only result
// and the output order matches the input order.
func (s *Service) AnalyzeBatch(ctx context.Context, userID string, texts []string) []Analysis {
	out := make([]Analysis, len(texts))
	for i, text := range texts {
		out[i] = s.analyzeIsolated(ctx, userID, text)
	}
	return out
}

func (s *Service) analyzeIsolated(ctx context.Context, userID, text string) (record Analysis) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("analysis.batch_item_panic", map[string]any{
				"user_id": userID,
				"panic":   rec,
			})
			record = s.localFallbackRecord(userID, text)
		}
	}()

	record, err := s.analyze(ctx, userID, text, false)
	if err != nil {
		record = s.localFallbackRecord(userID, text)
	}
	return record
}

// localFallbackRecord builds a degraded local result directly from the rule
// engine, bypassing preconditions. Used only for batch isolation.
func (s *Service) localFallbackRecord(userID, text string) Analysis {
	cfg := s.Analyzer.Config()
	result := s.Analyzer.Analyze(ruleengine.Normalize(text, cfg))
	result.Summary = ruleengine.Highlight(result.Summary, cfg.HighlightPhrases)
	return Analysis{
		ID:         uuid.NewString(),
		UserID:     userID,
		SourceText: text,
		Result:     result,
		Engine:     EngineLocal,
		CreatedAt:  s.Now().UTC(),
	}
}

// shouldUseRemote sends long or complex input to the remote analyzer.
func (s *Service) shouldUseRemote(normalized string, cfg ruleengine.Config) bool {
	if len(normalized) > remoteCharThreshold {
		return true
	}
	if len(strings.Fields(normalized)) > remoteWordThreshold {
		return true
	}
	if len(ruleengine.Segment(normalized, cfg)) > remoteSentenceThreshold {
		return true
	}
	lower := strings.ToLower(normalized)
	for _, kw := range cfg.UrgentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type remoteOutcome struct {
	raw json.RawMessage
	err error
}

// remoteAnalyze races the analyzer call against a bounded wait. Losing the
// race abandons the call rather than aborting it.
func (s *Service) remoteAnalyze(ctx context.Context, normalized string) (json.RawMessage, error) {
	ch := make(chan remoteOutcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- remoteOutcome{err: fmt.Errorf("remote analyzer panic: %v", rec)}
			}
		}()
		raw, err := s.LLM.AnalyzeText(ctx, llm.AnalyzeInput{Text: normalized})
		ch <- remoteOutcome{raw: raw, err: err}
	}()

	timer := time.NewTimer(s.RemoteTimeout)
	defer timer.Stop()

	select {
	case out := <-ch:
		return out.raw, out.err
	case <-timer.C:
		return nil, errors.New("remote analyzer timed out")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetByID fetches one analysis owned by the user.
func (s *Service) GetByID(ctx context.Context, userID, id string) (Analysis, error) {
	record, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Analysis{}, err
	}
	if record.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return record, nil
}

// ListByUser returns the user's analysis history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}
