package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/profile"
	"github.com/jonathan/cv-builder/internal/storage"
	"github.com/jonathan/cv-builder/internal/types"
)

// ---------------------------------------------------------------------
// Profile Handlers
// ---------------------------------------------------------------------

const maxProfileBody = 1 << 20

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	p, err := s.profiles.Load(r.Context(), userID)
	if err != nil {
		s.failure(w, r, "failed to load profile", err, "user_id", userID)
		return
	}
	s.jsonResponse(w, http.StatusOK, p)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	var req types.Profile
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBody)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := s.profiles.SaveProfile(r.Context(), userID, &req)
	if err != nil {
		s.failure(w, r, "failed to save profile", err, "user_id", userID)
		return
	}
	s.jsonResponse(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteProfileEntry(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	collection, err := types.ParseCollection(r.PathValue("collection"))
	if err != nil || collection == types.CollectionLinks {
		s.errorResponse(w, http.StatusBadRequest, "Invalid profile collection")
		return
	}

	ref, err := types.ParseEntryRef(r.PathValue("entry_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}
	if ref.Kind() == types.EntryPending {
		s.jsonResponse(w, http.StatusOK, map[string]bool{"deleted": false})
		return
	}

	deleted, err := s.profiles.DeleteEntry(r.Context(), userID, collection, ref)
	if err != nil {
		s.failure(w, r, "failed to delete profile entry", err, "user_id", userID, "collection", collection)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// ---------------------------------------------------------------------
// Picture Handlers
// ---------------------------------------------------------------------

func (s *Server) handleUploadPicture(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	data, contentType, err := readUpload(w, r, storage.MaxPictureSize)
	if err != nil {
		s.failure(w, r, "rejected picture upload", err, "user_id", userID)
		return
	}
	if _, err := storage.ValidatePicture(data, contentType); err != nil {
		s.failure(w, r, "rejected picture upload", err, "user_id", userID)
		return
	}

	current, err := s.profiles.Load(r.Context(), userID)
	if err != nil {
		s.failure(w, r, "failed to load profile for picture upload", err, "user_id", userID)
		return
	}
	var previous string
	if current.ProfilePictureURL != nil {
		previous = *current.ProfilePictureURL
	}

	url, err := s.pictures.Save(userID, data, contentType, previous)
	if err != nil {
		s.failure(w, r, "failed to store picture", err, "user_id", userID)
		return
	}
	if err := s.profiles.SetPicture(r.Context(), userID, &url); err != nil {
		s.pictures.Remove(userID, url)
		s.failure(w, r, "failed to save picture reference", err, "user_id", userID)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleDeletePicture(w http.ResponseWriter, r *http.Request, userID uuid.UUID) {
	current, err := s.profiles.Load(r.Context(), userID)
	if err != nil {
		s.failure(w, r, "failed to load profile for picture removal", err, "user_id", userID)
		return
	}

	// File removal is best-effort; the reference is cleared regardless.
	if current.ProfilePictureURL != nil {
		s.pictures.Remove(userID, *current.ProfilePictureURL)
	}
	if err := s.profiles.SetPicture(r.Context(), userID, nil); err != nil {
		s.failure(w, r, "failed to clear picture reference", err, "user_id", userID)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Profile picture removed"})
}

func (s *Server) handleGetPicture(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "not found")
		return
	}

	data, contentType, err := s.pictures.Open(userID, r.PathValue("name"))
	if err != nil {
		if !errors.Is(err, storage.ErrPictureNotFound) {
			s.logger.Error("failed to read picture", "user_id", userID, "error", err)
		}
		s.errorResponse(w, HTTPStatus(err), publicMessage(err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// account returns the fallback identity for a user; lookup failures yield an empty one.
func (s *Server) account(r *http.Request, userID uuid.UUID) profile.Account {
	user, err := s.userService.Account(r.Context(), userID)
	if err != nil {
		s.logger.Warn("failed to load account for profile defaults", "user_id", userID, "error", err)
		return profile.Account{}
	}
	return profile.Account{Name: user.Name, Email: user.Email}
}
