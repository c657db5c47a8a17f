package ruleengine

// Sentinels used when extraction finds nothing. Callers always receive
// non-empty actions/deadlines.
const (
	NoActionSentinel   = "No clear action mentioned"
	NoDeadlineSentinel = "No deadline mentioned"
	NoNextStepFallback = "No immediate action required."
)

// Urgency labels. Exactly one applies to a result.
const (
	UrgencyUrgent        = "Urgent"
	UrgencyImportant     = "Important"
	UrgencyInformational = "Informational"
)

// ConfusingPart flags a sentence likely to be misread, with a reason.
type ConfusingPart struct {
	Sentence    string `json:"sentence"`
	Explanation string `json:"explanation"`
}

// Result is the structured outcome of one analysis. It is built fresh per
// call and never mutated afterwards.
type Result struct {
	Actions        []string        `json:"actions"`
	Deadlines      []string        `json:"deadlines"`
	Urgency        string          `json:"urgency"`
	ConfusingParts []ConfusingPart `json:"confusingParts"`
	NextStep       string          `json:"nextStep"`
	Summary        string          `json:"summary"`
}

// ValidUrgency reports whether label is one of the three urgency values.
func ValidUrgency(label string) bool {
	switch label {
	case UrgencyUrgent, UrgencyImportant, UrgencyInformational:
		return true
	}
	return false
}
