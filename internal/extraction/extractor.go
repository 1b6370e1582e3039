package extraction

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cv-builder/internal/ingestion"
	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/prompts"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
)

// maxPromptChars bounds the CV text embedded in the extraction prompt.
const maxPromptChars = 30000

// Extractor reads uploaded CVs and asks the LLM for structured profile fields.
type Extractor struct {
	client llm.Client
	logger *slog.Logger
}

// NewExtractor creates an Extractor backed by client.
func NewExtractor(client llm.Client, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, logger: logger}
}

// Extract validates the upload, reads its text and returns the normalized extraction.
func (e *Extractor) Extract(ctx context.Context, data []byte, contentType string) (*types.ExtractedProfile, error) {
	if err := ValidateUpload(data, contentType); err != nil {
		return nil, err
	}

	text, err := ExtractText(data, contentType)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < MinTextLength {
		return nil, &InsufficientContentError{Length: n, Minimum: MinTextLength}
	}

	return e.ExtractFromText(ctx, text)
}

// ExtractFromText runs the LLM extraction over already-decoded CV text.
func (e *Extractor) ExtractFromText(ctx context.Context, text string) (*types.ExtractedProfile, error) {
	if !e.client.Available() {
		return nil, &UpstreamError{Message: "AI service unavailable", Cause: llm.ErrUnavailable}
	}
	text = ingestion.TruncateUTF8(text, maxPromptChars)

	prompt := prompts.Format(prompts.MustGet("extraction.json", "extract-profile"), map[string]string{
		"CVText": text,
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &UpstreamError{Message: "extraction call failed", Cause: err}
	}

	var extracted types.ExtractedProfile
	if err := schemas.Decode(schemas.ExtractedProfile, raw, &extracted); err != nil {
		return nil, &UpstreamError{Message: "unexpected extraction response", Cause: err}
	}

	normalizeProfile(&extracted)
	e.logger.Info("cv extracted",
		"chars", len(text),
		"experiences", len(extracted.Experience),
		"education", len(extracted.Education),
		"skills", len(extracted.Skills))
	return &extracted, nil
}

// normalizeProfile trims strings, normalizes dates and drops empty entries.
func normalizeProfile(p *types.ExtractedProfile) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Location = strings.TrimSpace(p.Location)
	p.ProfessionalSummary = strings.TrimSpace(p.ProfessionalSummary)
	p.DateOfBirth = NormalizeDatePtr(p.DateOfBirth)

	experiences := make([]types.ExtractedExperience, 0, len(p.Experience))
	for _, exp := range p.Experience {
		exp.Company = strings.TrimSpace(exp.Company)
		exp.Position = strings.TrimSpace(exp.Position)
		if exp.Company == "" && exp.Position == "" {
			continue
		}
		exp.Location = strings.TrimSpace(exp.Location)
		exp.StartDate = NormalizeDatePtr(exp.StartDate)
		exp.EndDate = NormalizeDatePtr(exp.EndDate)
		if exp.IsCurrent {
			exp.EndDate = nil
		}
		exp.Description = types.NormalizeBullets(exp.Description)
		experiences = append(experiences, exp)
	}
	p.Experience = experiences

	education := make([]types.ExtractedEducation, 0, len(p.Education))
	for _, edu := range p.Education {
		edu.Institution = strings.TrimSpace(edu.Institution)
		edu.Degree = strings.TrimSpace(edu.Degree)
		if edu.Institution == "" && edu.Degree == "" {
			continue
		}
		edu.FieldOfStudy = strings.TrimSpace(edu.FieldOfStudy)
		edu.Location = strings.TrimSpace(edu.Location)
		edu.StartDate = NormalizeDatePtr(edu.StartDate)
		edu.EndDate = NormalizeDatePtr(edu.EndDate)
		if edu.IsCurrent {
			edu.EndDate = nil
		}
		edu.Description = strings.TrimSpace(edu.Description)
		education = append(education, edu)
	}
	p.Education = education

	skills := make([]types.ExtractedSkill, 0, len(p.Skills))
	seen := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		s.Name = strings.TrimSpace(s.Name)
		key := strings.ToLower(s.Name)
		if s.Name == "" || seen[key] {
			continue
		}
		seen[key] = true
		s.Level = strings.TrimSpace(s.Level)
		s.Category = strings.TrimSpace(s.Category)
		skills = append(skills, s)
	}
	p.Skills = skills

	languages := make([]types.ExtractedLanguage, 0, len(p.Languages))
	for _, l := range p.Languages {
		if l.Name = strings.TrimSpace(l.Name); l.Name != "" {
			l.Proficiency = strings.TrimSpace(l.Proficiency)
			languages = append(languages, l)
		}
	}
	p.Languages = languages

	projects := make([]types.ExtractedProject, 0, len(p.Projects))
	for _, proj := range p.Projects {
		if proj.Name = strings.TrimSpace(proj.Name); proj.Name == "" {
			continue
		}
		proj.Description = strings.TrimSpace(proj.Description)
		if proj.Technologies == nil {
			proj.Technologies = []string{}
		}
		projects = append(projects, proj)
	}
	p.Projects = projects

	p.Links.LinkedIn = strings.TrimSpace(p.Links.LinkedIn)
	p.Links.GitHub = strings.TrimSpace(p.Links.GitHub)
	p.Links.Portfolio = strings.TrimSpace(p.Links.Portfolio)
	p.Links.Other = strings.TrimSpace(p.Links.Other)
}
