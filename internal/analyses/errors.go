package analyses

import "errors"

// ErrNotFound indicates the requested analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

// Error codes for failed analyses.
const (
	ErrorCodeInputTooShort    = "INPUT_TOO_SHORT"
	ErrorCodeAllKeysExhausted = "ALL_KEYS_EXHAUSTED"
	ErrorCodeInvalidJSON      = "INVALID_JSON"
	ErrorCodeRateLimited      = "RATE_LIMITED"
	ErrorCodeNetwork          = "NETWORK_ERROR"
	ErrorCodeUnknown          = "UNKNOWN_ERROR"
)

// AnalysisError is the caller-facing failure type. Retryable marks
// conditions a caller may retry later, like credential exhaustion.
type AnalysisError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e *AnalysisError) Error() string {
	return e.Message
}

// NewInputTooShort builds the rejection returned for under-length input.
func NewInputTooShort() *AnalysisError {
	return &AnalysisError{
		Code:    ErrorCodeInputTooShort,
		Message: "input text is too short to analyze",
	}
}

// NewAllKeysExhausted builds the distinguished exhaustion condition.
func NewAllKeysExhausted() *AnalysisError {
	return &AnalysisError{
		Code:      ErrorCodeAllKeysExhausted,
		Message:   "analysis service temporarily exhausted, try again later",
		Retryable: true,
	}
}
