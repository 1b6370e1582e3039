package tailoring

import (
	"context"
	"strings"

	"github.com/jonathan/cv-builder/internal/analysis"
	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/prompts"
	"github.com/jonathan/cv-builder/internal/types"
)

// CoverLetter writes 3-4 paragraphs of prose for the application. The only check
// on the output is that it is not blank.
func (t *Tailor) CoverLetter(ctx context.Context, jobDescription string, cv *types.CVDocument, result *types.JobAnalysis, jobTitle, companyName string) (string, error) {
	if !t.client.Available() {
		return "", &UpstreamError{Message: "AI service unavailable", Cause: llm.ErrUnavailable}
	}
	if strings.TrimSpace(companyName) == "" {
		companyName = "the company"
	}

	prompt := prompts.Format(prompts.MustGet("tailoring.json", "cover-letter"), map[string]string{
		"JobTitle":       jobTitle,
		"CompanyName":    companyName,
		"JobDescription": jobDescription,
		"Profile":        cv.FullName + "\n" + analysis.CondenseProfile(cv),
		"Analysis":       keyMatches(result),
	})

	text, err := t.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &UpstreamError{Message: "cover letter call failed", Cause: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &UpstreamError{Message: "cover letter came back empty"}
	}
	return text, nil
}

func keyMatches(a *types.JobAnalysis) string {
	if a == nil {
		return "(none)"
	}
	var lines []string
	if len(a.RequiredSkills) > 0 {
		lines = append(lines, "Required skills: "+strings.Join(a.RequiredSkills, ", "))
	}
	if len(a.Keywords) > 0 {
		lines = append(lines, "Keywords: "+strings.Join(a.Keywords, ", "))
	}
	if len(lines) == 0 {
		return "(none)"
	}
	return strings.Join(lines, "\n")
}
