package extraction

import (
	"fmt"
	"mime"
	"strings"
)

// Accepted CV MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC  = "application/msword"
)

const (
	// MaxFileSize is the largest accepted upload; exactly this size is allowed.
	MaxFileSize = 10 * 1024 * 1024
	// MinTextLength is the trimmed character count below which a CV is rejected.
	MinTextLength = 100
)

// NormalizeMIME lowercases a Content-Type and drops its parameters.
func NormalizeMIME(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// IsAllowedMIME reports whether contentType is a PDF or Word document.
func IsAllowedMIME(contentType string) bool {
	switch NormalizeMIME(contentType) {
	case MimePDF, MimeDOCX, MimeDOC:
		return true
	}
	return false
}

// ValidateUpload enforces type and size limits on a CV upload.
func ValidateUpload(data []byte, contentType string) error {
	if !IsAllowedMIME(contentType) {
		return &ValidationError{Message: fmt.Sprintf("unsupported file type %q: upload a PDF or Word document", contentType)}
	}
	if len(data) == 0 {
		return &ValidationError{Message: "file is empty"}
	}
	if len(data) > MaxFileSize {
		return &ValidationError{Message: fmt.Sprintf("file exceeds the %d MB limit", MaxFileSize/(1024*1024))}
	}
	return nil
}
