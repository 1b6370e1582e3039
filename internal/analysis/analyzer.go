// Package analysis compares a job description with a candidate's CV data.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/prompts"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
)

// Analyzer produces a JobAnalysis with one LLM call.
type Analyzer struct {
	client llm.Client
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer backed by client.
func NewAnalyzer(client llm.Client, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, logger: logger}
}

// Analyze asks the LLM to compare jobDescription with the candidate. The result
// is not deterministic across calls.
func (a *Analyzer) Analyze(ctx context.Context, jobDescription string, cv *types.CVDocument) (*types.JobAnalysis, error) {
	if !a.client.Available() {
		return nil, &UpstreamError{Message: "AI service unavailable", Cause: llm.ErrUnavailable}
	}

	prompt := prompts.Format(prompts.MustGet("analysis.json", "analyze-job"), map[string]string{
		"JobDescription": jobDescription,
		"Profile":        CondenseProfile(cv),
	})

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &UpstreamError{Message: "analysis call failed", Cause: err}
	}

	var result types.JobAnalysis
	if err := schemas.Decode(schemas.JobAnalysis, raw, &result); err != nil {
		return nil, &UpstreamError{Message: "unexpected analysis response", Cause: err}
	}
	fillEmpty(&result)

	a.logger.Debug("job analyzed",
		"match_percentage", result.MatchPercentage,
		"keywords", len(result.Keywords),
		"missing_skills", len(result.MissingSkills))
	return &result, nil
}

// CondenseProfile renders the parts of a CV relevant for matching: summary,
// skills with levels and positions held.
func CondenseProfile(cv *types.CVDocument) string {
	if cv == nil {
		return "(no profile data)"
	}
	var sb strings.Builder

	if s := strings.TrimSpace(cv.Summary); s != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", s)
	}

	if len(cv.Skills) > 0 {
		skills := make([]string, 0, len(cv.Skills))
		for _, s := range cv.Skills {
			if s.SkillLevel != "" {
				skills = append(skills, fmt.Sprintf("%s (%s)", s.SkillName, s.SkillLevel))
			} else {
				skills = append(skills, s.SkillName)
			}
		}
		fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(skills, ", "))
	}

	if len(cv.Experiences) > 0 {
		sb.WriteString("Experience:\n")
		for _, e := range cv.Experiences {
			fmt.Fprintf(&sb, "- %s at %s\n", e.Position, e.Company)
		}
	}

	if sb.Len() == 0 {
		return "(no profile data)"
	}
	return strings.TrimSpace(sb.String())
}

func fillEmpty(a *types.JobAnalysis) {
	for _, s := range []*[]string{&a.Keywords, &a.RequiredSkills, &a.Responsibilities, &a.MissingSkills, &a.Suggestions} {
		if *s == nil {
			*s = []string{}
		}
	}
}
