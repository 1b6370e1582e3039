package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/llm/llmtest"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/types"
)

func sampleCV() *types.CVDocument {
	return &types.CVDocument{
		FullName: "Ada Lovelace",
		Summary:  "Backend engineer focused on payments.",
		Skills: []types.CVSkill{
			{SkillName: "Go", SkillLevel: "Expert"},
			{SkillName: "Kubernetes"},
		},
		Experiences: []types.CVExperience{{Company: "Acme", Position: "Senior Engineer"}},
	}
}

func TestAnalyze_Success(t *testing.T) {
	fake := &llmtest.Fake{JSON: `{"keywords": ["payments", "Go"], "required_skills": ["Go", "PostgreSQL"],
		"responsibilities": ["Own the ledger"], "missing_skills": ["PostgreSQL"],
		"match_percentage": 78, "suggestions": ["Mention database work"]}`}

	result, err := NewAnalyzer(fake, logging.Discard()).Analyze(context.Background(), "Go engineer for payments", sampleCV())
	require.NoError(t, err)

	assert.Equal(t, 78, result.MatchPercentage)
	assert.GreaterOrEqual(t, result.MatchPercentage, 0)
	assert.LessOrEqual(t, result.MatchPercentage, 100)
	assert.Equal(t, []string{"PostgreSQL"}, result.MissingSkills)

	require.Len(t, fake.JSONPrompts, 1)
	prompt := fake.JSONPrompts[0]
	assert.Contains(t, prompt, "Go engineer for payments")
	assert.Contains(t, prompt, "Go (Expert)")
	assert.Contains(t, prompt, "Senior Engineer at Acme")
}

func TestAnalyze_RejectsBadResponses(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "missing percentage", json: `{"keywords": [], "required_skills": [], "responsibilities": [], "missing_skills": [], "suggestions": []}`},
		{name: "percentage over 100", json: `{"keywords": [], "required_skills": [], "responsibilities": [], "missing_skills": [], "match_percentage": 140, "suggestions": []}`},
		{name: "malformed JSON", json: `{"keywords": ["go"`},
		{name: "prose", json: `The candidate is a strong match.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalyzer(&llmtest.Fake{JSON: tt.json}, logging.Discard()).Analyze(context.Background(), "jd", sampleCV())
			var uerr *UpstreamError
			assert.True(t, errors.As(err, &uerr), "expected *UpstreamError, got %v", err)
		})
	}
}

func TestAnalyze_Unavailable(t *testing.T) {
	_, err := NewAnalyzer(&llmtest.Fake{Down: true}, logging.Discard()).Analyze(context.Background(), "jd", sampleCV())
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestCondenseProfile(t *testing.T) {
	assert.Equal(t, "(no profile data)", CondenseProfile(nil))
	assert.Equal(t, "(no profile data)", CondenseProfile(&types.CVDocument{FullName: "Ada"}))
	assert.Equal(t,
		"Summary: Backend engineer focused on payments.\nSkills: Go (Expert), Kubernetes\nExperience:\n- Senior Engineer at Acme",
		CondenseProfile(sampleCV()))
}
