package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"wsid-backend/internal/analyses/ruleengine"
	"wsid-backend/internal/llm"
)

const urgentLongText = "Suspension of classes is hereby declared immediately in all levels. " +
	"This is due to heavy rainfall across the area. " +
	"The order is effective starting this afternoon and remains until lifted. " +
	"Parents must watch for further announcements. " +
	"Everyone should stay at home during the suspension."

type staticLLM struct {
	payload string
}

func (s staticLLM) AnalyzeText(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	return json.RawMessage(s.payload), nil
}

type failingLLM struct{}

func (failingLLM) AnalyzeText(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	return nil, errors.New("upstream 500")
}

type exhaustedLLM struct{}

func (exhaustedLLM) AnalyzeText(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	return nil, llm.ErrAllKeysExhausted
}

type slowLLM struct {
	delay time.Duration
}

func (s slowLLM) AnalyzeText(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	time.Sleep(s.delay)
	return json.RawMessage(`{"urgency":"Urgent"}`), nil
}

func newTestService(client llm.Client) *Service {
	analyzer := ruleengine.NewAnalyzer(ruleengine.Standard(), ruleengine.RankSummarizer{})
	return NewService(analyzer, client, nil, NewMemoryRepo(), 12*time.Second)
}

func TestAnalyzeShortTextStaysLocal(t *testing.T) {
	svc := newTestService(staticLLM{payload: `{"urgency":"Urgent"}`})
	record, err := svc.Analyze(context.Background(), "u1", "Submit the form by Friday.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Engine != EngineLocal {
		t.Fatalf("expected local engine for short text, got %s", record.Engine)
	}
	if record.Result.Urgency != ruleengine.UrgencyImportant {
		t.Fatalf("expected Important, got %s", record.Result.Urgency)
	}
}

func TestAnalyzeComplexTextUsesRemote(t *testing.T) {
	svc := newTestService(staticLLM{payload: `{"actions":["Watch for announcements"],"deadlines":[],"urgency":"Urgent","confusingParts":[],"nextStep":"Watch for announcements","summary":"Classes are suspended today."}`})
	record, err := svc.Analyze(context.Background(), "u1", urgentLongText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Engine != EngineRemote {
		t.Fatalf("expected remote engine, got %s", record.Engine)
	}
	if record.Result.Urgency != ruleengine.UrgencyUrgent {
		t.Fatalf("expected Urgent, got %s", record.Result.Urgency)
	}
	if record.Result.Deadlines[0] != ruleengine.NoDeadlineSentinel {
		t.Fatalf("expected deadline sentinel, got %v", record.Result.Deadlines)
	}
	if !strings.Contains(record.Result.Summary, "<mark>") {
		t.Fatalf("expected highlighted summary, got %q", record.Result.Summary)
	}
}

func TestAnalyzeFallsBackOnRemoteFailure(t *testing.T) {
	svc := newTestService(failingLLM{})
	record, err := svc.Analyze(context.Background(), "u1", urgentLongText)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if record.Engine != EngineFallback {
		t.Fatalf("expected fallback engine, got %s", record.Engine)
	}
	if record.Result.Urgency != ruleengine.UrgencyUrgent {
		t.Fatalf("expected local Urgent classification, got %s", record.Result.Urgency)
	}
}

func TestAnalyzeFallsBackOnInvalidRemoteJSON(t *testing.T) {
	svc := newTestService(staticLLM{payload: `"not an object"`})
	record, err := svc.Analyze(context.Background(), "u1", urgentLongText)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if record.Engine != EngineFallback {
		t.Fatalf("expected fallback engine, got %s", record.Engine)
	}
}

func TestAnalyzeRemoteTimeoutFallsBack(t *testing.T) {
	svc := newTestService(slowLLM{delay: 500 * time.Millisecond})
	svc.RemoteTimeout = 20 * time.Millisecond

	start := time.Now()
	record, err := svc.Analyze(context.Background(), "u1", urgentLongText)
	if err != nil {
		t.Fatalf("expected fallback, got error: %v", err)
	}
	if record.Engine != EngineFallback {
		t.Fatalf("expected fallback engine, got %s", record.Engine)
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Fatalf("expected bounded wait, took %v", elapsed)
	}
}

func TestAnalyzeExhaustionPropagates(t *testing.T) {
	svc := newTestService(exhaustedLLM{})
	_, err := svc.Analyze(context.Background(), "u1", urgentLongText)

	var analysisErr *AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected AnalysisError, got %v", err)
	}
	if analysisErr.Code != ErrorCodeAllKeysExhausted {
		t.Fatalf("expected exhaustion code, got %s", analysisErr.Code)
	}
	if !analysisErr.Retryable {
		t.Fatalf("expected retryable error")
	}
}

func TestAnalyzeFastAlwaysLocal(t *testing.T) {
	svc := newTestService(staticLLM{payload: `{"urgency":"Urgent"}`})
	record, err := svc.AnalyzeFast(context.Background(), "u1", urgentLongText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Engine != EngineLocal {
		t.Fatalf("expected local engine in fast mode, got %s", record.Engine)
	}
}

func TestAnalyzeInputLengthBoundary(t *testing.T) {
	svc := newTestService(nil)

	if _, err := svc.Analyze(context.Background(), "u1", "call toda"); err == nil {
		t.Fatalf("expected rejection below minimum length")
	} else {
		var analysisErr *AnalysisError
		if !errors.As(err, &analysisErr) || analysisErr.Code != ErrorCodeInputTooShort {
			t.Fatalf("expected input-too-short code, got %v", err)
		}
	}

	if _, err := svc.Analyze(context.Background(), "u1", "call today"); err != nil {
		t.Fatalf("expected exact-minimum input accepted, got %v", err)
	}
}

func TestAnalyzeBatchIsolationAndOrder(t *testing.T) {
	svc := newTestService(exhaustedLLM{})
	texts := []string{
		"Submit the form by Friday.",
		urgentLongText,
		"The office will be open next week.",
	}
	results := svc.AnalyzeBatch(context.Background(), "u1", texts)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.SourceText != texts[i] {
			t.Fatalf("result %d out of order: %q", i, r.SourceText)
		}
		if r.ID == "" {
			t.Fatalf("result %d missing ID", i)
		}
		if !ruleengine.ValidUrgency(r.Result.Urgency) {
			t.Fatalf("result %d urgency outside closed set: %s", i, r.Result.Urgency)
		}
	}
	// The exhaustion on the middle item degrades to a local result instead
	// of aborting the batch.
	if results[1].Engine != EngineLocal {
		t.Fatalf("expected degraded local result for middle item, got %s", results[1].Engine)
	}
}

func TestAnalyzePersistsHistory(t *testing.T) {
	repo := NewMemoryRepo()
	analyzer := ruleengine.NewAnalyzer(ruleengine.Standard(), ruleengine.RankSummarizer{})
	svc := NewService(analyzer, nil, nil, repo, time.Second)

	record, err := svc.Analyze(context.Background(), "u1", "Submit the form by Friday.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := repo.GetByID(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("expected record persisted: %v", err)
	}
	if stored.UserID != "u1" {
		t.Fatalf("unexpected user: %s", stored.UserID)
	}
}

func TestAnalyzeRemoteSummaryWithMultibyteRunes(t *testing.T) {
	payload := `{"actions":["Stay home"],"deadlines":[],"urgency":"Urgent","confusingParts":[],"nextStep":"Stay home","summary":"Heat index peaked near 310K. Everyone must submit today."}`
	svc := newTestService(staticLLM{payload: payload})

	record, err := svc.Analyze(context.Background(), "u1", urgentLongText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Engine != EngineRemote {
		t.Fatalf("expected remote engine, got %s", record.Engine)
	}
	if !strings.Contains(record.Result.Summary, "K") {
		t.Fatalf("expected kelvin sign preserved, got %q", record.Result.Summary)
	}
	if !strings.Contains(record.Result.Summary, "<mark>submit</mark>") {
		t.Fatalf("expected highlighted summary, got %q", record.Result.Summary)
	}
}
