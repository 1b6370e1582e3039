package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
	Long:  "Apply, roll back or inspect the embedded goose migrations against DATABASE_URL.",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabaseURL(cmd.Context(), func(ctx context.Context, url string) error {
			if err := db.Migrate(ctx, url); err != nil {
				return err
			}
			return printVersion(ctx, cmd, url)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabaseURL(cmd.Context(), func(ctx context.Context, url string) error {
			if err := db.MigrateDown(ctx, url); err != nil {
				return err
			}
			return printVersion(ctx, cmd, url)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabaseURL(cmd.Context(), func(ctx context.Context, url string) error {
			return printVersion(ctx, cmd, url)
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withDatabaseURL(ctx context.Context, fn func(ctx context.Context, url string) error) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, cfg.Database.URL)
}

func printVersion(ctx context.Context, cmd *cobra.Command, url string) error {
	version, err := db.MigrationVersion(ctx, url)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
