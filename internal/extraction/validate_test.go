package extraction

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		contentType string
		wantErr     bool
	}{
		{name: "pdf", size: 1024, contentType: MimePDF},
		{name: "docx", size: 1024, contentType: MimeDOCX},
		{name: "doc", size: 1024, contentType: MimeDOC},
		{name: "pdf with params", size: 1024, contentType: "Application/PDF; charset=binary"},
		{name: "exactly max size", size: MaxFileSize, contentType: MimePDF},
		{name: "one byte over", size: MaxFileSize + 1, contentType: MimePDF, wantErr: true},
		{name: "zero bytes", size: 0, contentType: MimePDF, wantErr: true},
		{name: "gif", size: 1024, contentType: "image/gif", wantErr: true},
		{name: "plain text", size: 1024, contentType: "text/plain", wantErr: true},
		{name: "missing type", size: 1024, contentType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(make([]byte, tt.size), tt.contentType)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
		})
	}
}
