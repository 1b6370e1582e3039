// Package server provides the HTTP REST API for the CV builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/editor"
	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/profile"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/server/middleware"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/jonathan/cv-builder/internal/storage"
	"github.com/jonathan/cv-builder/internal/types"
)

// ProfileService assembles and persists user profiles.
type ProfileService interface {
	Load(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, p *types.Profile) (*types.Profile, error)
	DeleteEntry(ctx context.Context, userID uuid.UUID, c types.Collection, ref types.EntryRef) (bool, error)
	SetPicture(ctx context.Context, userID uuid.UUID, url *string) error
	ApplyExtraction(ctx context.Context, userID uuid.UUID, account profile.Account, ext *types.ExtractedProfile) (*profile.ReplaceReport, error)
}

// CVExtractor reads an uploaded CV into structured data.
type CVExtractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (*types.ExtractedProfile, error)
}

// DocumentGenerator runs the analyze-and-tailor pipeline.
type DocumentGenerator interface {
	Generate(ctx context.Context, req pipeline.Request) (*types.GeneratedDocument, error)
}

// CVEditor applies chat instructions to a CV. It never fails.
type CVEditor interface {
	ApplyEdit(ctx context.Context, instruction string, current *types.CVDocument, templateID string) editor.Result
}

// DocumentStore reads and updates generated documents scoped to their owner.
type DocumentStore interface {
	GetDocument(ctx context.Context, id, userID uuid.UUID) (*types.GeneratedDocument, error)
	ListDocuments(ctx context.Context, userID uuid.UUID) ([]types.DocumentSummary, error)
	UpdateDocument(ctx context.Context, id, userID uuid.UUID, u types.DocumentUpdate) (*types.GeneratedDocument, error)
	DeleteDocument(ctx context.Context, id, userID uuid.UUID) error
}

// ContactStore records contact-form submissions.
type ContactStore interface {
	SaveContactMessage(ctx context.Context, req *types.ContactRequest) (uuid.UUID, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators of the HTTP server.
type Deps struct {
	Config    *config.Config
	Users     DBClient
	Profiles  ProfileService
	Documents DocumentStore
	Contacts  ContactStore
	Database  Pinger
	Extractor CVExtractor
	Generator DocumentGenerator
	Editor    CVEditor
	Renderer  *rendering.Renderer
	PDF       rendering.PDFExporter
	Pictures  *storage.PictureStore
	LLM       llm.Client
	Logger    *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	cfg         *config.Config
	logger      *slog.Logger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	profiles  ProfileService
	documents DocumentStore
	contacts  ContactStore
	database  Pinger
	extractor CVExtractor
	generator DocumentGenerator
	editor    CVEditor
	renderer  *rendering.Renderer
	pdf       rendering.PDFExporter
	pictures  *storage.PictureStore
	llm       llm.Client
	now       func() time.Time
}

// New creates a new server instance
func New(deps Deps) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server config is required")
	}
	if err := deps.Config.JWT.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	llmClient := deps.LLM
	if llmClient == nil {
		llmClient = llm.Unavailable()
	}

	s := &Server{
		cfg:         deps.Config,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.FromConfig(deps.Config.Server.RateLimit)),
		profiles:    deps.Profiles,
		documents:   deps.Documents,
		contacts:    deps.Contacts,
		database:    deps.Database,
		extractor:   deps.Extractor,
		generator:   deps.Generator,
		editor:      deps.Editor,
		renderer:    deps.Renderer,
		pdf:         deps.PDF,
		pictures:    deps.Pictures,
		llm:         llmClient,
		now:         time.Now,
	}

	s.userService = NewUserService(deps.Users, &deps.Config.Password)
	s.jwtService = NewJWTService(&deps.Config.JWT)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, logger)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(s.routes())))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", deps.Config.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout, // Long timeout for generation and PDF export
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	authed := func(h func(http.ResponseWriter, *http.Request, uuid.UUID)) http.Handler {
		return auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := middleware.GetUserID(r)
			if err != nil {
				s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			h(w, r, userID)
		}))
	}

	// Public endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /contact", s.handleContact)
	mux.HandleFunc("GET /templates", s.handleTemplates)
	mux.HandleFunc("GET /pictures/{user_id}/{name}", s.handleGetPicture)

	// Account
	mux.Handle("PUT /auth/password", authed(s.authHandler.UpdatePassword))

	// Profile endpoints
	mux.Handle("GET /profile", authed(s.handleGetProfile))
	mux.Handle("PUT /profile", authed(s.handleSaveProfile))
	mux.Handle("DELETE /profile/{collection}/{entry_id}", authed(s.handleDeleteProfileEntry))
	mux.Handle("POST /profile/picture", authed(s.handleUploadPicture))
	mux.Handle("DELETE /profile/picture", authed(s.handleDeletePicture))

	// CV endpoints
	mux.Handle("POST /cv/extract", authed(s.handleExtractCV))
	mux.Handle("POST /cv/edit", authed(s.handleEditCV))

	// Document endpoints
	mux.Handle("POST /documents", authed(s.handleCreateDocument))
	mux.Handle("GET /documents", authed(s.handleListDocuments))
	mux.Handle("GET /documents/{id}", authed(s.handleGetDocument))
	mux.Handle("PUT /documents/{id}", authed(s.handleUpdateDocument))
	mux.Handle("DELETE /documents/{id}", authed(s.handleDeleteDocument))
	mux.Handle("GET /documents/{id}/preview", authed(s.handlePreviewDocument))
	mux.Handle("GET /documents/{id}/pdf", authed(s.handleDocumentPDF))
	mux.Handle("GET /documents/{id}/cover-letter", authed(s.handleCoverLetter))

	return mux
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr, "llm_available", s.llm.Available())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers for the configured origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	allowed := s.cfg.Server.AllowedOrigins
	wildcard := slices.Contains(allowed, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case wildcard:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(allowed, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remote", r.RemoteAddr,
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.database.Ping(ctx); err != nil {
			s.logger.Warn("health check: database unreachable", "error", err)
			status = "degraded"
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":        status,
		"llm_available": s.llm.Available(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.logger.Warn("error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failure logs err with its context and answers with the mapped status and a
// short message. Detail never reaches the response body.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	status := HTTPStatus(err)
	attrs = append(attrs, "path", r.URL.Path, "status", status, "error", err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, attrs...)
	} else {
		s.logger.Info(msg, attrs...)
	}
	s.errorResponse(w, status, publicMessage(err))
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded", "client", clientID, "limit", info.Limit, "reset_at", info.ResetTime)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
