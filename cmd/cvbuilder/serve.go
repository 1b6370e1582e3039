package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/analysis"
	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/editor"
	"github.com/jonathan/cv-builder/internal/extraction"
	"github.com/jonathan/cv-builder/internal/llm"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/profile"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/server"
	"github.com/jonathan/cv-builder/internal/storage"
	"github.com/jonathan/cv-builder/internal/tailoring"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for profiles, CV extraction, document generation and export.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending database migrations before starting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()

	if serveMigrate {
		if err := db.Migrate(ctx, cfg.Database.URL); err != nil {
			return err
		}
	}

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	llmClient, err := llm.NewClient(ctx, llm.ConfigFromModels(cfg.LLM.Models), cfg.LLM.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer llmClient.Close()
	if !llmClient.Available() {
		logger.Warn("GEMINI_API_KEY not set: AI features are disabled")
	}

	pictures, err := storage.NewPictureStore(cfg.Storage.Dir, cfg.Storage.PublicBaseURL, logger)
	if err != nil {
		return err
	}

	renderer, err := rendering.NewRenderer()
	if err != nil {
		return err
	}

	profiles := profile.NewService(database, logger)
	generator := pipeline.NewGenerator(
		profiles,
		analysis.NewAnalyzer(llmClient, logger),
		tailoring.NewTailor(llmClient, logger),
		database,
		renderer,
		logger,
	)

	srv, err := server.New(server.Deps{
		Config:    cfg,
		Users:     database,
		Profiles:  profiles,
		Documents: database,
		Contacts:  database,
		Database:  database,
		Extractor: extraction.NewExtractor(llmClient, logger),
		Generator: generator,
		Editor:    editor.NewEditor(llmClient, logger),
		Renderer:  renderer,
		PDF:       rendering.NewChromePDFExporter(cfg.Browser.ExecPath, logger),
		Pictures:  pictures,
		LLM:       llmClient,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
