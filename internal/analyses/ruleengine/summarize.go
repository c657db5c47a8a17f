package ruleengine

import (
	"sort"
	"strings"
)

// Summarizer produces a pre-highlighting summary string from segmented
// sentences. Two strategies exist; which one runs is configuration.
type Summarizer interface {
	Summarize(sentences []string, cfg Config) string
}

// NewSummarizer maps a strategy name to its implementation, defaulting to
// score-and-rank.
func NewSummarizer(strategy string) Summarizer {
	if strategy == "decision" {
		return DecisionSummarizer{}
	}
	return RankSummarizer{}
}

// RankSummarizer scores every sentence for decision relevance and keeps the
// top few by descending score.
type RankSummarizer struct{}

func (RankSummarizer) Summarize(sentences []string, cfg Config) string {
	type scored struct {
		sentence string
		score    int
	}
	ranked := make([]scored, 0, len(sentences))
	for _, s := range sentences {
		ranked = append(ranked, scored{sentence: s, score: scoreSentence(s, cfg)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	topN := cfg.SummaryTopN
	if topN <= 0 {
		topN = 2
	}
	var picked []string
	for _, r := range ranked {
		if r.score <= 0 || len(picked) == topN {
			break
		}
		picked = append(picked, r.sentence)
	}
	if len(picked) == 0 {
		// Nothing scored; fall back to the first two raw sentences.
		n := len(sentences)
		if n > 2 {
			n = 2
		}
		picked = sentences[:n]
	}
	return strings.Join(picked, " ")
}

func scoreSentence(sentence string, cfg Config) int {
	lower := strings.ToLower(sentence)
	score := 0
	for _, kw := range cfg.ImportantKeywords {
		score += strings.Count(lower, kw) * 3
	}
	for _, kw := range cfg.DateKeywords {
		score += strings.Count(lower, kw)
	}
	if cfg.DeadlinePattern.MatchString(sentence) {
		score += 2
	}
	if matchesAny(lower, cfg.ActionVerbs) {
		score += 2
	}
	if len(sentence) >= cfg.ReadableMin && len(sentence) <= cfg.ReadableMax {
		score++
	}
	return score
}

// DecisionSummarizer picks at most one sentence per narrative slot, in fixed
// priority order: the decision itself, its cause, and its timeframe. It
// exists because salience scoring tends to surface redundant or header-like
// sentences for terse official notices.
type DecisionSummarizer struct{}

func (DecisionSummarizer) Summarize(sentences []string, cfg Config) string {
	seen := make(map[string]struct{}, len(sentences))
	var candidates []string
	for _, s := range sentences {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if isHeaderOrBoilerplate(s, cfg) {
			continue
		}
		candidates = append(candidates, s)
	}

	slots := [][]string{cfg.DecisionKeywords, cfg.ReasonKeywords, cfg.TimeframeKeywords}
	used := make(map[int]struct{}, 3)
	var picked []string
	for _, keywords := range slots {
		for i, s := range candidates {
			if _, taken := used[i]; taken {
				continue
			}
			if matchesAny(strings.ToLower(s), keywords) {
				picked = append(picked, s)
				used[i] = struct{}{}
				break
			}
		}
	}
	if len(picked) == 0 {
		n := len(candidates)
		if n > 2 {
			n = 2
		}
		picked = candidates[:n]
	}
	return strings.Join(picked, " ")
}
