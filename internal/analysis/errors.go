package analysis

import "fmt"

// UpstreamError wraps LLM call and response-shape failures.
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("job analysis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("job analysis failed: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
