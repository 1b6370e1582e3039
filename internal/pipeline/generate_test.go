package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/analysis"
	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/profile"
	"github.com/jonathan/cv-builder/internal/tailoring"
	"github.com/jonathan/cv-builder/internal/types"
)

func strPtr(s string) *string { return &s }

// scriptedClient answers GenerateJSON calls in order and GenerateContent with text.
type scriptedClient struct {
	mu    sync.Mutex
	json  []string
	text  string
	calls []string
}

func (c *scriptedClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "json")
	if len(c.json) == 0 {
		return "", errors.New("no scripted response left")
	}
	out := c.json[0]
	c.json = c.json[1:]
	return out, nil
}

func (c *scriptedClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "text")
	return c.text, nil
}

func (c *scriptedClient) Available() bool { return true }
func (c *scriptedClient) Close() error    { return nil }

type stubProfiles struct {
	profile *types.Profile
	err     error
}

func (s *stubProfiles) LoadComplete(context.Context, uuid.UUID) (*types.Profile, error) {
	return s.profile, s.err
}

type memoryDocuments struct {
	saved []*types.GeneratedDocument
	err   error
}

func (m *memoryDocuments) CreateDocument(_ context.Context, d *types.GeneratedDocument) error {
	if m.err != nil {
		return m.err
	}
	d.ID = uuid.New()
	m.saved = append(m.saved, d)
	return nil
}

type fixedTemplates struct{}

func (fixedTemplates) Resolve(id string) string {
	if id == "classic" {
		return id
	}
	return "modern"
}

// sparseProfile has one experience with no description at all.
func sparseProfile() *types.Profile {
	return &types.Profile{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Experiences: []types.Experience{
			{Ref: types.Saved(uuid.New()), Company: "Acme", Position: "Engineer", StartDate: strPtr("2021-01-01"), IsCurrent: true},
		},
		Skills: []types.Skill{{Name: "Go", Level: "Expert"}},
	}
}

func analysisJSON(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(types.JobAnalysis{
		Keywords:         []string{"payments", "go"},
		RequiredSkills:   []string{"Go", "Kubernetes"},
		Responsibilities: []string{"Build services"},
		MissingSkills:    []string{"Kubernetes"},
		MatchPercentage:  64,
		Suggestions:      []string{"Mention scale"},
	})
	require.NoError(t, err)
	return string(data)
}

func tailoredJSON(t *testing.T) string {
	t.Helper()
	cv := profile.ToCVDocument(sparseProfile())
	cv.Experiences[0].Description = "- Built a payments API in Go serving 1M requests/day\n- Cut deploy time by 60%\n- Introduced contract tests across 5 services\n- Mentored 2 engineers"
	data, err := json.Marshal(cv)
	require.NoError(t, err)
	return string(data)
}

func newTestGenerator(client llm.Client, profiles ProfileLoader, docs DocumentStore) *Generator {
	logger := logging.Discard()
	return NewGenerator(profiles, analysis.NewAnalyzer(client, logger), tailoring.NewTailor(client, logger), docs, fixedTemplates{}, logger)
}

func TestGenerate_EnrichesSparseProfile(t *testing.T) {
	client := &scriptedClient{json: []string{analysisJSON(t), tailoredJSON(t)}, text: "Dear team,\n\nI build payment systems."}
	docs := &memoryDocuments{}
	var steps []string

	doc, err := newTestGenerator(client, &stubProfiles{profile: sparseProfile()}, docs).Generate(context.Background(), Request{
		UserID:         uuid.New(),
		JobDescription: "<p>Senior Go engineer for <b>payments</b></p>",
		JobTitle:       " Senior Engineer ",
		CompanyName:    strPtr("Stripe"),
		TemplateID:     "unknown",
		OnProgress:     func(e ProgressEvent) { steps = append(steps, e.Step) },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"json", "json", "text"}, client.calls, "analysis, tailoring, cover letter run in order")
	assert.Equal(t, []string{StepAssembleProfile, StepAnalyzeJob, StepTailorCV, StepCoverLetter, StepSaveDocument}, steps)

	require.Len(t, docs.saved, 1)
	assert.Equal(t, doc, docs.saved[0])
	assert.Equal(t, "Senior Engineer", doc.JobTitle)
	assert.Equal(t, "Stripe", *doc.CompanyName)
	assert.Equal(t, "modern", doc.TemplateID)
	assert.NotContains(t, doc.JobDescription, "<p>")
	assert.Equal(t, 64, doc.Analysis.MatchPercentage)
	assert.GreaterOrEqual(t, doc.Analysis.MatchPercentage, 0)
	assert.LessOrEqual(t, doc.Analysis.MatchPercentage, 100)

	bullets := types.Bullets(doc.CVContent.Experiences[0].Description)
	assert.GreaterOrEqual(t, len(bullets), 4, "sparse experience must be enriched")
	assert.Equal(t, "Built a payments API in Go serving 1M requests/day", bullets[0])
	assert.Contains(t, doc.CoverLetterContent, "payment systems")
}

func TestGenerate_ProfileNotFound(t *testing.T) {
	client := &scriptedClient{}
	docs := &memoryDocuments{}
	_, err := newTestGenerator(client, &stubProfiles{err: profile.ErrProfileNotFound}, docs).Generate(context.Background(), Request{
		UserID: uuid.New(), JobDescription: "Go engineer", JobTitle: "Engineer",
	})
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	assert.Empty(t, client.calls, "no LLM call without a profile")
	assert.Empty(t, docs.saved)
}

func TestGenerate_Validation(t *testing.T) {
	gen := newTestGenerator(&scriptedClient{}, &stubProfiles{profile: sparseProfile()}, &memoryDocuments{})
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"missing title", Request{JobDescription: "Go engineer"}, "job_title"},
		{"blank description", Request{JobTitle: "Engineer", JobDescription: "  \n "}, "job_description"},
		{"markup only", Request{JobTitle: "Engineer", JobDescription: "<div><script>x()</script></div>"}, "job_description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.Generate(context.Background(), tt.req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestGenerate_AnalysisFailureStopsPipeline(t *testing.T) {
	client := &scriptedClient{json: []string{`{"keywords":[]}`}}
	docs := &memoryDocuments{}
	_, err := newTestGenerator(client, &stubProfiles{profile: sparseProfile()}, docs).Generate(context.Background(), Request{
		UserID: uuid.New(), JobDescription: "Go engineer", JobTitle: "Engineer",
	})
	var ue *analysis.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, []string{"json"}, client.calls)
	assert.Empty(t, docs.saved)
}

func TestGenerate_EmptyCoverLetterStopsPipeline(t *testing.T) {
	client := &scriptedClient{json: []string{analysisJSON(t), tailoredJSON(t)}, text: "   "}
	docs := &memoryDocuments{}
	_, err := newTestGenerator(client, &stubProfiles{profile: sparseProfile()}, docs).Generate(context.Background(), Request{
		UserID: uuid.New(), JobDescription: "Go engineer", JobTitle: "Engineer",
	})
	var ue *tailoring.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Empty(t, docs.saved)
}

func TestGenerate_StoreFailure(t *testing.T) {
	client := &scriptedClient{json: []string{analysisJSON(t), tailoredJSON(t)}, text: "Letter"}
	docs := &memoryDocuments{err: errors.New("insert failed")}
	_, err := newTestGenerator(client, &stubProfiles{profile: sparseProfile()}, docs).Generate(context.Background(), Request{
		UserID: uuid.New(), JobDescription: "Go engineer", JobTitle: "Engineer",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
}
