package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/extraction"
	"github.com/jonathan/cv-builder/internal/llm"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured profile data from a CV file",
	Long:  "Read a PDF or Word CV, extract its text and print the structured profile the AI returns as JSON.",
	RunE:  runExtract,
}

var (
	extractInputFile  string
	extractOutputFile string
	extractTextOnly   bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractInputFile, "in", "i", "", "Path to the CV (.pdf or .docx)")
	extractCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	extractCmd.Flags().BoolVar(&extractTextOnly, "text", false, "Print the decoded text instead of calling the AI")
	_ = extractCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(extractInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	contentType := contentTypeForFile(extractInputFile)
	if err := extraction.ValidateUpload(data, contentType); err != nil {
		return err
	}

	if extractTextOnly {
		text, err := extraction.ExtractText(data, contentType)
		if err != nil {
			return err
		}
		return writeOutput(cmd, extractOutputFile, []byte(text+"\n"))
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, llm.ConfigFromModels(cfg.LLM.Models), cfg.LLM.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()
	if !client.Available() {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable)")
	}

	extracted, err := extraction.NewExtractor(client, logger).Extract(ctx, data, contentType)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(extracted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return writeOutput(cmd, extractOutputFile, append(out, '\n'))
}

func contentTypeForFile(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extraction.MimePDF
	case ".docx":
		return extraction.MimeDOCX
	case ".doc":
		return extraction.MimeDOC
	default:
		return "application/octet-stream"
	}
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}
