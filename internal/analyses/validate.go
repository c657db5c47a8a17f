package analyses

import (
	"encoding/json"
	"fmt"

	"wsid-backend/internal/analyses/ruleengine"
)

const noStepPlaceholder = "No action specified"

// normalizeRemoteResult coerces a remote payload into the canonical shape.
// Validation is per-field: invalid fields default rather than rejecting the
// whole response. A completely unparsable payload is a hard failure.
func normalizeRemoteResult(raw json.RawMessage) (ruleengine.Result, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ruleengine.Result{}, fmt.Errorf("unparsable analyzer payload: %w", err)
	}

	result := ruleengine.Result{
		Actions:        ensureStringSlice(payload["actions"]),
		Deadlines:      ensureStringSlice(payload["deadlines"]),
		Urgency:        ensureUrgency(payload["urgency"]),
		ConfusingParts: ensureConfusingParts(payload["confusingParts"]),
		NextStep:       fallbackString(payload["nextStep"], noStepPlaceholder),
		Summary:        fallbackString(payload["summary"], ""),
	}
	return ruleengine.FillSentinels(result), nil
}

func ensureStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func ensureUrgency(v any) string {
	s, ok := v.(string)
	if !ok || !ruleengine.ValidUrgency(s) {
		return ruleengine.UrgencyInformational
	}
	return s
}

func ensureConfusingParts(v any) []ruleengine.ConfusingPart {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []ruleengine.ConfusingPart
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sentence, _ := obj["sentence"].(string)
		explanation, _ := obj["explanation"].(string)
		if sentence == "" {
			continue
		}
		out = append(out, ruleengine.ConfusingPart{Sentence: sentence, Explanation: explanation})
	}
	return out
}

func fallbackString(v any, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}
