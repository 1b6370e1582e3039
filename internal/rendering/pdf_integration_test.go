//go:build !short

package rendering

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-builder/internal/logging"
)

func chromeAvailable() bool {
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func TestChromePDFExporter_Integration(t *testing.T) {
	if !chromeAvailable() {
		t.Skip("Chrome not installed")
	}

	html, err := MustNewRenderer().Render("modern", sampleCV())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pdf, err := NewChromePDFExporter("", logging.Discard()).ExportPDF(ctx, html)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestChromePDFExporter_BadExecPath(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := NewChromePDFExporter("/nonexistent/chrome", logging.Discard()).ExportPDF(ctx, "<html><body></body></html>")
	var ee *ExportError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "pdf", ee.Format)
}
