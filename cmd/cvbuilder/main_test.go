package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/extraction"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestContentTypeForFile(t *testing.T) {
	assert.Equal(t, extraction.MimePDF, contentTypeForFile("cv.PDF"))
	assert.Equal(t, extraction.MimeDOCX, contentTypeForFile("/tmp/my cv.docx"))
	assert.Equal(t, extraction.MimeDOC, contentTypeForFile("old.doc"))
	assert.Equal(t, "application/octet-stream", contentTypeForFile("notes.txt"))
}

func TestRenderCommand_HTML(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cv.json")
	out := filepath.Join(dir, "cv.html")
	require.NoError(t, os.WriteFile(in, []byte(`{
	  "full_name": "Ada Lovelace",
	  "email": "ada@example.com",
	  "phone": "",
	  "location": "London",
	  "summary": "Engineer.",
	  "experiences": [],
	  "education": [],
	  "skills": [{"skill_name": "Go", "skill_level": "expert"}],
	  "projects": [],
	  "languages": [],
	  "links": {"linkedin": "", "github": "", "portfolio": ""}
	}`), 0o600))

	_, err := execute(t, "render", "--in", in, "--out", out, "--template", "classic", "--format", "html")
	require.NoError(t, err)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Ada Lovelace")
}

func TestRenderCommand_UnknownTemplateFallsBack(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cv.json")
	out := filepath.Join(dir, "cv.html")
	require.NoError(t, os.WriteFile(in, []byte(`{
	  "full_name": "Ada Lovelace", "email": "", "phone": "", "location": "", "summary": "",
	  "experiences": [], "education": [], "skills": [], "projects": [], "languages": [],
	  "links": {"linkedin": "", "github": "", "portfolio": ""}
	}`), 0o600))

	_, err := execute(t, "render", "--in", in, "--out", out, "--template", "nope", "--format", "html")
	require.NoError(t, err)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), `class="monogram"`)
}

func TestRenderCommand_RejectsInvalidDocument(t *testing.T) {
	in := filepath.Join(t.TempDir(), "cv.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"full_name": 42}`), 0o600))

	_, err := execute(t, "render", "--in", in, "--format", "html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CV document")
}

func TestExtractCommand_TextOnly(t *testing.T) {
	in := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(in, nil, 0o600))

	_, err := execute(t, "extract", "--in", in, "--text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file is empty")
}
