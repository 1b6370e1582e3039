package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/types"
)

// ---------------------------------------------------------------------
// Document Handlers
// ---------------------------------------------------------------------

const maxDocumentBody = 2 << 20

// CreateDocumentRequest is the body of POST /documents.
type CreateDocumentRequest struct {
	JobDescription string  `json:"job_description"`
	JobTitle       string  `json:"job_title"`
	CompanyName    *string `json:"company_name,omitempty"`
	TemplateID     string  `json:"template_id,omitempty"`
}

// CreateDocumentResponse is returned by POST /documents.
type CreateDocumentResponse struct {
	DocumentID  uuid.UUID         `json:"document_id"`
	Analysis    types.JobAnalysis `json:"analysis"`
	CVContent   types.CVDocument  `json:"cv_content"`
	CoverLetter string            `json:"cover_letter"`
	TemplateID  string            `json:"template_id"`
}

// UpdateDocumentRequest is the body of PUT /documents/{id}.
type UpdateDocumentRequest struct {
	CVContent          *types.CVDocument `json:"cv_content"`
	CoverLetterContent *string           `json:"cover_letter_content,omitempty"`
	TemplateID         *string           `json:"template_id,omitempty"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req CreateDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := s.generator.Generate(r.Context(), pipeline.Request{
		UserID:         userID,
		JobDescription: req.JobDescription,
		JobTitle:       req.JobTitle,
		CompanyName:    req.CompanyName,
		TemplateID:     req.TemplateID,
	})
	if err != nil {
		s.failure(w, r, "document generation failed", err, "user_id", userID)
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateDocumentResponse{
		DocumentID:  doc.ID,
		Analysis:    doc.Analysis,
		CVContent:   doc.CVContent,
		CoverLetter: doc.CoverLetterContent,
		TemplateID:  doc.TemplateID,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	docs, err := s.documents.ListDocuments(r.Context(), userID)
	if err != nil {
		s.failure(w, r, "failed to list documents", err, "user_id", userID)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	doc, ok := s.ownedDocument(w, r, userID)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"document": doc})
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return
	}

	var req UpdateDocumentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CVContent == nil {
		s.errorResponse(w, http.StatusBadRequest, "validation error: cv_content - required")
		return
	}
	req.CVContent.Normalize()

	update := types.DocumentUpdate{
		CVContent:          *req.CVContent,
		CoverLetterContent: req.CoverLetterContent,
	}
	if req.TemplateID != nil {
		resolved := s.renderer.Resolve(*req.TemplateID)
		update.TemplateID = &resolved
	}

	doc, err := s.documents.UpdateDocument(r.Context(), id, userID, update)
	if err != nil {
		s.failure(w, r, "failed to update document", err, "user_id", userID, "document_id", id)
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"document": doc})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return
	}
	if err := s.documents.DeleteDocument(r.Context(), id, userID); err != nil {
		s.failure(w, r, "failed to delete document", err, "user_id", userID, "document_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreviewDocument(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	doc, ok := s.ownedDocument(w, r, userID)
	if !ok {
		return
	}

	html, err := s.renderer.Render(s.templateFor(r, doc), &doc.CVContent)
	if err != nil {
		s.failure(w, r, "failed to render preview", err, "document_id", doc.ID)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleDocumentPDF(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	doc, ok := s.ownedDocument(w, r, userID)
	if !ok {
		return
	}

	// The browser loads the page from memory, so a stored picture must travel inline.
	cv := s.inlinePicture(&doc.CVContent)
	html, err := s.renderer.Render(s.templateFor(r, doc), cv)
	if err != nil {
		s.failure(w, r, "failed to render PDF source", err, "document_id", doc.ID)
		return
	}

	pdf, err := s.pdf.ExportPDF(r.Context(), html)
	if err != nil {
		s.failure(w, r, "PDF export failed", err, "document_id", doc.ID)
		return
	}

	filename := rendering.ExportFilename("cv", doc.JobTitle, "pdf", s.now())
	s.attachment(w, "application/pdf", filename, pdf)
}

func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	doc, ok := s.ownedDocument(w, r, userID)
	if !ok {
		return
	}

	data := rendering.CoverLetterData{
		ApplicantName: doc.CVContent.FullName,
		Email:         doc.CVContent.Email,
		Phone:         doc.CVContent.Phone,
		Address:       doc.CVContent.Location,
		Date:          s.now(),
		Body:          doc.CoverLetterContent,
	}
	if doc.CompanyName != nil {
		data.CompanyName = *doc.CompanyName
	}

	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "docx":
		out, err := rendering.CoverLetterDOCX(data)
		if err != nil {
			s.failure(w, r, "cover letter export failed", err, "document_id", doc.ID)
			return
		}
		s.attachment(w, "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			rendering.ExportFilename("cover_letter", doc.JobTitle, "docx", s.now()), out)
	case "txt":
		s.attachment(w, "text/plain; charset=utf-8",
			rendering.ExportFilename("cover_letter", doc.JobTitle, "txt", s.now()), []byte(rendering.CoverLetterText(data)))
	default:
		s.errorResponse(w, http.StatusBadRequest, "validation error: format - must be docx or txt")
	}
}

// ownedDocument loads the document named in the path for userID. Missing, foreign and
// malformed IDs all produce the same 404.
func (s *Server) ownedDocument(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*types.GeneratedDocument, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return nil, false
	}
	doc, err := s.documents.GetDocument(r.Context(), id, userID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		s.failure(w, r, "failed to load document", err, "user_id", userID, "document_id", id)
		return nil, false
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return nil, false
	}
	return doc, true
}

// templateFor prefers the ?template= query over the stored template.
func (s *Server) templateFor(r *http.Request, doc *types.GeneratedDocument) string {
	if t := r.URL.Query().Get("template"); t != "" {
		return s.renderer.Resolve(t)
	}
	return s.renderer.Resolve(doc.TemplateID)
}

// inlinePicture returns cv with a stored picture replaced by a data URI. Pictures that
// cannot be read are left as they are.
func (s *Server) inlinePicture(cv *types.CVDocument) *types.CVDocument {
	if s.pictures == nil || cv.ProfilePictureURL == nil || !cv.ShowProfilePicture {
		return cv
	}
	data, contentType, err := s.pictures.OpenURL(*cv.ProfilePictureURL)
	if err != nil {
		s.logger.Debug("picture not inlined", "url", *cv.ProfilePictureURL, "error", err)
		return cv
	}
	out := cv.Clone()
	uri := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	out.ProfilePictureURL = &uri
	return out
}

func (s *Server) attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
