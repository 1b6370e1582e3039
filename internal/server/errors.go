package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/analysis"
	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/extraction"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/profile"
	"github.com/jonathan/cv-builder/internal/storage"
	"github.com/jonathan/cv-builder/internal/tailoring"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// errNotFound is the single answer for missing and foreign resources.
var errNotFound = errors.New("not found")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists  *ErrEmailAlreadyExists
		badCreds     *ErrInvalidCredentials
		mismatch     *ErrPasswordMismatch
		userNotFound *ErrUserNotFound
		validation   *ErrValidation
		uploadErr    *extraction.ValidationError
		pictureErr   *storage.ValidationError
		requestErr   *pipeline.ValidationError
		fieldErrs    validator.ValidationErrors
		textErr      *extraction.TextExtractionError
		shortErr     *extraction.InsufficientContentError
		extractAI    *extraction.UpstreamError
		analysisAI   *analysis.UpstreamError
		tailorAI     *tailoring.UpstreamError
	)

	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &badCreds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &validation), errors.As(err, &uploadErr), errors.As(err, &pictureErr),
		errors.As(err, &requestErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &userNotFound), errors.Is(err, errNotFound), errors.Is(err, db.ErrNotFound),
		errors.Is(err, profile.ErrProfileNotFound), errors.Is(err, storage.ErrPictureNotFound):
		return http.StatusNotFound
	case errors.As(err, &textErr), errors.As(err, &shortErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &extractAI), errors.As(err, &analysisAI), errors.As(err, &tailorAI):
		return http.StatusBadGateway
	default:
		// storage failures, *rendering.TemplateError and *rendering.ExportError
		return http.StatusInternalServerError
	}
}

// publicMessage is the short, non-technical text sent to clients for err.
// Validation messages describe the caller's own input and are passed through.
func publicMessage(err error) string {
	var (
		validation *ErrValidation
		uploadErr  *extraction.ValidationError
		pictureErr *storage.ValidationError
		requestErr *pipeline.ValidationError
		fieldErrs  validator.ValidationErrors
	)
	switch {
	case errors.As(err, &validation):
		return validation.Error()
	case errors.As(err, &uploadErr):
		return uploadErr.Error()
	case errors.As(err, &pictureErr):
		return pictureErr.Error()
	case errors.As(err, &requestErr):
		return requestErr.Error()
	case errors.As(err, &fieldErrs):
		return extractValidationErrors(fieldErrs)
	case errors.Is(err, profile.ErrProfileNotFound):
		return "profile_not_found"
	}

	var mismatch *ErrPasswordMismatch
	if errors.As(err, &mismatch) {
		return mismatch.Error()
	}

	switch HTTPStatus(err) {
	case http.StatusConflict:
		return "email already registered"
	case http.StatusUnauthorized:
		return "invalid email or password"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity:
		var shortErr *extraction.InsufficientContentError
		if errors.As(err, &shortErr) {
			return "not enough text could be read from the file"
		}
		return "the file could not be read"
	case http.StatusBadGateway:
		return "the AI service is unavailable, please try again later"
	default:
		return "internal server error"
	}
}
