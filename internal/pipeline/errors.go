package pipeline

import "fmt"

// ValidationError indicates a generation request that cannot be processed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Message)
}
