package ruleengine

import "strings"

// Extraction holds the per-sentence findings plus the whole-text urgency
// classification. Summary generation lives in the summarizers.
type Extraction struct {
	Actions        []string
	Deadlines      []string
	ConfusingParts []ConfusingPart
	Urgency        string
	NextStep       string
}

// Extract scans sentences for actions, deadlines, and confusing parts, then
// classifies whole-text urgency. It never fails; absent matches simply leave
// empty slices for the caller to resolve to sentinels.
func Extract(sentences []string, normalized string, cfg Config) Extraction {
	var ex Extraction

	for _, sentence := range sentences {
		lower := strings.ToLower(sentence)

		// Declaration language wins outright: emit the canonical directive
		// and skip remaining checks for this sentence.
		if matchesAny(lower, cfg.DeclarationPatterns) {
			if !containsString(ex.Actions, cfg.DeclarationDirective) {
				ex.Actions = append(ex.Actions, cfg.DeclarationDirective)
			}
			continue
		}

		if matchesAny(lower, cfg.ActionVerbs) {
			ex.Actions = append(ex.Actions, sentence)
		}

		if match := cfg.DeadlinePattern.FindString(sentence); match != "" {
			ex.Deadlines = append(ex.Deadlines, match)
		}

		if len(sentence) > cfg.ConfusingLength || matchesAny(lower, cfg.HedgingPhrases) {
			ex.ConfusingParts = append(ex.ConfusingParts, ConfusingPart{
				Sentence:    sentence,
				Explanation: cfg.ConfusionExplanation,
			})
		}
	}

	ex.Urgency = classifyUrgency(normalized, len(ex.Deadlines) > 0, cfg)
	ex.NextStep = deriveNextStep(ex.Actions, cfg)
	return ex
}

func classifyUrgency(normalized string, hasDeadline bool, cfg Config) string {
	lower := strings.ToLower(normalized)
	if matchesAny(lower, cfg.UrgentKeywords) {
		return UrgencyUrgent
	}
	if hasDeadline {
		return UrgencyImportant
	}
	return UrgencyInformational
}

func deriveNextStep(actions []string, cfg Config) string {
	if len(actions) == 0 {
		return NoNextStepFallback
	}
	step := actions[0]
	if cfg.LowercaseNextStep {
		step = strings.ToLower(step)
	}
	return step
}

func matchesAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
