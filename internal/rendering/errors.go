// Package rendering turns CV documents into HTML through a template registry and
// exports CVs as PDF and cover letters as DOCX or plain text.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing an HTML template
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error (%s): %s: %v", e.Template, e.Message, e.Cause)
	}
	return fmt.Sprintf("template error (%s): %s", e.Template, e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// ExportError represents a failure producing a binary export (PDF or DOCX)
type ExportError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s export failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s export failed: %s", e.Format, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
