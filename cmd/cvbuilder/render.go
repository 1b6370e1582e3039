package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV document to HTML or PDF",
	Long:  "Render a CV document JSON file with one of the built-in templates and write HTML or, through headless Chrome, PDF.",
	RunE:  runRender,
}

var (
	renderInputFile  string
	renderOutputFile string
	renderTemplate   string
	renderFormat     string
	renderTimeout    time.Duration
)

func init() {
	renderCmd.Flags().StringVarP(&renderInputFile, "in", "i", "", "Path to CV document JSON")
	renderCmd.Flags().StringVarP(&renderOutputFile, "out", "o", "", "Path to output file (default stdout)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", rendering.DefaultTemplate, "Template ID")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "Output format: html or pdf")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", time.Minute, "PDF export timeout")
	_ = renderCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(renderInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var cv types.CVDocument
	if err := schemas.Decode(schemas.CVDocument, string(raw), &cv); err != nil {
		return fmt.Errorf("invalid CV document: %w", err)
	}
	cv.Normalize()

	renderer, err := rendering.NewRenderer()
	if err != nil {
		return err
	}
	templateID := renderer.Resolve(renderTemplate)
	if templateID != renderTemplate {
		logger.Warn("unknown template, using default",
			"requested", renderTemplate, "template", templateID, "available", renderer.IDs())
	}

	html, err := renderer.Render(templateID, &cv)
	if err != nil {
		return err
	}

	switch strings.ToLower(renderFormat) {
	case "html":
		return writeOutput(cmd, renderOutputFile, []byte(html))
	case "pdf":
		ctx, cancel := context.WithTimeout(context.Background(), renderTimeout)
		defer cancel()
		pdf, err := rendering.NewChromePDFExporter(cfg.Browser.ExecPath, logger).ExportPDF(ctx, html)
		if err != nil {
			return err
		}
		return writeOutput(cmd, renderOutputFile, pdf)
	default:
		return fmt.Errorf("unsupported format %q: use html or pdf", renderFormat)
	}
}
