package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_AllPipelinePrompts(t *testing.T) {
	tests := []struct {
		file         string
		key          string
		placeholders []string
	}{
		{"extraction.json", "extract-profile", []string{"{{.CVText}}"}},
		{"analysis.json", "analyze-job", []string{"{{.JobDescription}}", "{{.Profile}}"}},
		{"tailoring.json", "tailor-cv", []string{"{{.JobDescription}}", "{{.Analysis}}", "{{.CV}}"}},
		{"tailoring.json", "cover-letter", []string{"{{.JobTitle}}", "{{.CompanyName}}", "{{.Profile}}"}},
		{"editor.json", "apply-edit", []string{"{{.Instruction}}", "{{.CV}}", "{{.TemplateID}}"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			prompt, err := Get(tt.file, tt.key)
			require.NoError(t, err)
			for _, p := range tt.placeholders {
				assert.Contains(t, prompt, p)
			}
		})
	}
}

func TestGet_Errors(t *testing.T) {
	_, err := Get("nonexistent.json", "some-key")
	assert.ErrorContains(t, err, "not found")

	_, err = Get("analysis.json", "nonexistent-key")
	assert.ErrorContains(t, err, `prompt key "nonexistent-key" not found`)
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
	assert.NotPanics(t, func() { MustGet("editor.json", "apply-edit") })
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, welcome to {{.Company}}! {{.Missing}}", map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	})
	assert.Equal(t, "Hello Alice, welcome to Acme Corp! {{.Missing}}", result)
}

func TestFormat_ValueContainingPlaceholderIsNotExpanded(t *testing.T) {
	result := Format("{{.CV}} / {{.Instruction}}", map[string]string{
		"CV":          "literal {{.Instruction}}",
		"Instruction": "shorten",
	})
	assert.True(t, strings.HasPrefix(result, "literal {{.Instruction}}"))
	assert.True(t, strings.HasSuffix(result, "/ shorten"))
}
