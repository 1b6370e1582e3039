package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// multipartOverhead is the allowance for multipart framing on top of the file limit.
const multipartOverhead = 1 << 20

var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// readUpload reads the multipart "file" field. It reads at most limit+1 bytes so the
// caller's size validation sees oversized files as such.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, "", &ErrValidation{Field: "file", Message: fmt.Sprintf("must not exceed %d bytes", limit)}
		case errors.Is(err, http.ErrMissingFile):
			return nil, "", &ErrValidation{Field: "file", Message: "is required"}
		default:
			return nil, "", &ErrValidation{Field: "file", Message: "invalid multipart upload"}
		}
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, "", &ErrValidation{Field: "file", Message: "could not read upload"}
	}
	return data, uploadContentType(header.Header.Get("Content-Type"), header.Filename), nil
}

// uploadContentType prefers the declared part type and falls back to the file
// extension when the client sent none or a generic one.
func uploadContentType(declared, filename string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err == nil && mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType
	}
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return t
	}
	return declared
}
