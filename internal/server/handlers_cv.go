package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/extraction"
	"github.com/jonathan/cv-builder/internal/types"
)

// ---------------------------------------------------------------------
// CV Handlers
// ---------------------------------------------------------------------

// ExtractResponse is returned by POST /cv/extract.
type ExtractResponse struct {
	Extracted      *types.ExtractedProfile `json:"extracted"`
	Warnings       []string                `json:"warnings"`
	FailedSections []types.Collection      `json:"failed_sections,omitempty"`
}

// EditRequest is the body of POST /cv/edit.
type EditRequest struct {
	Message    string            `json:"message"`
	CurrentCV  *types.CVDocument `json:"current_cv"`
	TemplateID string            `json:"template_id"`
}

// EditResponse is the body returned by POST /cv/edit, on success and on AI failure alike.
type EditResponse struct {
	CVData  *types.CVDocument `json:"cv_data"`
	Message string            `json:"message"`
	Applied bool              `json:"applied"`
}

func (s *Server) handleExtractCV(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	data, contentType, err := readUpload(w, r, extraction.MaxFileSize)
	if err != nil {
		s.failure(w, r, "rejected CV upload", err, "user_id", userID)
		return
	}

	extracted, err := s.extractor.Extract(r.Context(), data, contentType)
	if err != nil {
		s.failure(w, r, "CV extraction failed", err, "user_id", userID, "content_type", contentType, "size", len(data))
		return
	}

	report, err := s.profiles.ApplyExtraction(r.Context(), userID, s.account(r, userID), extracted)
	if err != nil {
		s.failure(w, r, "failed to save extracted profile", err, "user_id", userID)
		return
	}

	failed := report.Failed()
	if len(failed) > 0 {
		s.logger.Warn("extracted profile partially saved", "user_id", userID, "failed", failed)
	}
	s.jsonResponse(w, http.StatusOK, ExtractResponse{Extracted: extracted, Warnings: report.Warnings(), FailedSections: failed})
}

func (s *Server) handleEditCV(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req EditRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentCV == nil {
		s.errorResponse(w, http.StatusBadRequest, "validation error: current_cv - required")
		return
	}

	result := s.editor.ApplyEdit(r.Context(), req.Message, req.CurrentCV, req.TemplateID)
	if !result.Applied {
		s.logger.Info("CV edit not applied", "user_id", userID, "notice", result.Message)
	}
	s.jsonResponse(w, http.StatusOK, EditResponse{
		CVData:  result.Document,
		Message: result.Message,
		Applied: result.Applied,
	})
}
