// Package extraction turns uploaded PDF and Word CVs into structured profile data.
package extraction

import "fmt"

// ValidationError rejects an upload before any text is read.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid upload: %s", e.Message)
}

// TextExtractionError means the file could not be decoded into text.
type TextExtractionError struct {
	Message string
	Cause   error
}

func (e *TextExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("text extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("text extraction failed: %s", e.Message)
}

func (e *TextExtractionError) Unwrap() error {
	return e.Cause
}

// InsufficientContentError means the decoded text is below the minimum length.
type InsufficientContentError struct {
	Length  int
	Minimum int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("insufficient content: extracted %d characters, need at least %d", e.Length, e.Minimum)
}

// UpstreamError wraps LLM call and response-shape failures.
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("AI extraction failed: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
