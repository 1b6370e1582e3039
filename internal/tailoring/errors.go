package tailoring

import "fmt"

// UpstreamError wraps LLM call failures and unusable tailoring output.
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tailoring failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("tailoring failed: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
