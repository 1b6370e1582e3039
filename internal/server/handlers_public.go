package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/types"
)

const maxContactBody = 64 << 10

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req types.ContactRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	id, err := s.contacts.SaveContactMessage(r.Context(), &req)
	if err != nil {
		s.failure(w, r, "failed to store contact message", err)
		return
	}
	s.logger.Info("contact message received", "id", id, "subject", req.Subject)
	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"id":      id.String(),
		"message": "Thank you for your message. We will get back to you soon.",
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": rendering.Templates(),
		"default":   rendering.DefaultTemplate,
	})
}
