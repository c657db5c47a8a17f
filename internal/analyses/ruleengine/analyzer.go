package ruleengine

// MinInputLength is the minimum normalized length accepted by the pipeline.
const MinInputLength = 10

// Analyzer is the local, infallible analysis path: normalize, segment,
// extract, summarize. Any non-empty input yields a complete Result.
type Analyzer struct {
	cfg        Config
	summarizer Summarizer
}

// NewAnalyzer builds an Analyzer for the given ruleset and summarizer.
func NewAnalyzer(cfg Config, summarizer Summarizer) *Analyzer {
	if summarizer == nil {
		summarizer = RankSummarizer{}
	}
	return &Analyzer{cfg: cfg, summarizer: summarizer}
}

// Config returns the analyzer's ruleset.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Analyze runs the full local pipeline over already-normalized text. The
// summary comes back plain; highlighting is the caller's final step.
func (a *Analyzer) Analyze(normalized string) Result {
	sentences := Segment(normalized, a.cfg)
	ex := Extract(sentences, normalized, a.cfg)

	result := Result{
		Actions:        ex.Actions,
		Deadlines:      ex.Deadlines,
		Urgency:        ex.Urgency,
		ConfusingParts: ex.ConfusingParts,
		NextStep:       ex.NextStep,
		Summary:        a.summarizer.Summarize(sentences, a.cfg),
	}
	return FillSentinels(result)
}

// FillSentinels resolves empty containers to their sentinel values so the
// caller never sees an empty actions or deadlines list.
func FillSentinels(result Result) Result {
	if len(result.Actions) == 0 {
		result.Actions = []string{NoActionSentinel}
	}
	if len(result.Deadlines) == 0 {
		result.Deadlines = []string{NoDeadlineSentinel}
	}
	if result.ConfusingParts == nil {
		result.ConfusingParts = []ConfusingPart{}
	}
	if result.NextStep == "" {
		result.NextStep = NoNextStepFallback
	}
	if !ValidUrgency(result.Urgency) {
		result.Urgency = UrgencyInformational
	}
	return result
}
