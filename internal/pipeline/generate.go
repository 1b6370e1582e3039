// Package pipeline orchestrates document generation: profile assembly, job analysis,
// CV tailoring, cover letter writing and persistence, strictly in that order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/ingestion"
	"github.com/jonathan/cv-builder/internal/profile"
	"github.com/jonathan/cv-builder/internal/types"
)

// Step names reported through ProgressCallback.
const (
	StepAssembleProfile = "assemble_profile"
	StepAnalyzeJob      = "analyze_job"
	StepTailorCV        = "tailor_cv"
	StepCoverLetter     = "cover_letter"
	StepSaveDocument    = "save_document"
)

// ProgressEvent represents a progress update during generation
type ProgressEvent struct {
	Step     string        `json:"step"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// ProgressCallback is called after each completed step
type ProgressCallback func(event ProgressEvent)

// ProfileLoader returns a complete profile or profile.ErrProfileNotFound.
type ProfileLoader interface {
	LoadComplete(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
}

// JobAnalyzer compares a job description with a CV.
type JobAnalyzer interface {
	Analyze(ctx context.Context, jobDescription string, cv *types.CVDocument) (*types.JobAnalysis, error)
}

// ContentTailor rewrites a CV and writes a cover letter for a job.
type ContentTailor interface {
	TailorCV(ctx context.Context, jobDescription string, base *types.CVDocument, analysis *types.JobAnalysis) (*types.CVDocument, error)
	CoverLetter(ctx context.Context, jobDescription string, cv *types.CVDocument, analysis *types.JobAnalysis, jobTitle, companyName string) (string, error)
}

// DocumentStore persists generated documents.
type DocumentStore interface {
	CreateDocument(ctx context.Context, d *types.GeneratedDocument) error
}

// TemplateResolver maps a requested template to a registered one.
type TemplateResolver interface {
	Resolve(templateID string) string
}

// Request is one generation request.
type Request struct {
	UserID         uuid.UUID
	JobDescription string
	JobTitle       string
	CompanyName    *string
	TemplateID     string
	OnProgress     ProgressCallback
}

// Generator runs the generation pipeline.
type Generator struct {
	profiles  ProfileLoader
	analyzer  JobAnalyzer
	tailor    ContentTailor
	documents DocumentStore
	templates TemplateResolver
	logger    *slog.Logger
}

// NewGenerator wires the pipeline stages.
func NewGenerator(profiles ProfileLoader, analyzer JobAnalyzer, tailor ContentTailor, documents DocumentStore, templates TemplateResolver, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		profiles:  profiles,
		analyzer:  analyzer,
		tailor:    tailor,
		documents: documents,
		templates: templates,
		logger:    logger,
	}
}

// Generate assembles the profile, analyzes the job, tailors the CV, writes the cover
// letter and stores the result. Any failing step aborts the run; nothing is stored
// unless every step succeeded.
func (g *Generator) Generate(ctx context.Context, req Request) (*types.GeneratedDocument, error) {
	jobTitle := strings.TrimSpace(req.JobTitle)
	if jobTitle == "" {
		return nil, &ValidationError{Field: "job_title", Message: "is required"}
	}
	jobDescription, err := ingestion.PrepareJobDescription(req.JobDescription)
	if err != nil {
		return nil, &ValidationError{Field: "job_description", Message: err.Error()}
	}
	if jobDescription == "" {
		return nil, &ValidationError{Field: "job_description", Message: "is required"}
	}
	var companyName string
	if req.CompanyName != nil {
		companyName = strings.TrimSpace(*req.CompanyName)
	}

	logger := g.logger.With("user_id", req.UserID, "job_title", jobTitle)
	run := &progress{onProgress: req.OnProgress, logger: logger, started: time.Now()}

	p, err := g.profiles.LoadComplete(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	base := profile.ToCVDocument(p)
	run.done(StepAssembleProfile, fmt.Sprintf("%d experiences, %d skills", len(base.Experiences), len(base.Skills)))

	analysis, err := g.analyzer.Analyze(ctx, jobDescription, base)
	if err != nil {
		return nil, err
	}
	run.done(StepAnalyzeJob, fmt.Sprintf("match %d%%", analysis.MatchPercentage))

	tailored, err := g.tailor.TailorCV(ctx, jobDescription, base, analysis)
	if err != nil {
		return nil, err
	}
	run.done(StepTailorCV, fmt.Sprintf("%d experiences", len(tailored.Experiences)))

	letter, err := g.tailor.CoverLetter(ctx, jobDescription, tailored, analysis, jobTitle, companyName)
	if err != nil {
		return nil, err
	}
	run.done(StepCoverLetter, fmt.Sprintf("%d characters", len(letter)))

	doc := &types.GeneratedDocument{
		UserID:             req.UserID,
		JobTitle:           jobTitle,
		JobDescription:     jobDescription,
		CVContent:          *tailored,
		CoverLetterContent: letter,
		TemplateID:         g.templates.Resolve(req.TemplateID),
		Analysis:           *analysis,
	}
	if companyName != "" {
		doc.CompanyName = &companyName
	}
	if err := g.documents.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save generated document: %w", err)
	}
	run.done(StepSaveDocument, doc.ID.String())

	logger.Info("document generated", "document_id", doc.ID, "duration", time.Since(run.started))
	return doc, nil
}

type progress struct {
	onProgress ProgressCallback
	logger     *slog.Logger
	started    time.Time
	last       time.Time
}

func (p *progress) done(step, message string) {
	now := time.Now()
	since := p.last
	if since.IsZero() {
		since = p.started
	}
	p.last = now

	event := ProgressEvent{Step: step, Message: message, Duration: now.Sub(since)}
	p.logger.Debug("pipeline step completed", "step", step, "message", message, "duration", event.Duration)
	if p.onProgress != nil {
		p.onProgress(event)
	}
}
