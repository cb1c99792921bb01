package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/transitoria/internal/config"
	"github.com/Veraticus/transitoria/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Other commands migrate on start as well; use --status to see the schema
version without changing anything.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("status", false, "show the current schema version without applying changes")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	dbPath := config.ExpandPath(viper.GetString("database.path"))

	db, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()
	before, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if status {
		printOut(cmd, fmt.Sprintf("database %s: schema version %d of %d", dbPath, before, storage.ExpectedSchemaVersion))
		return nil
	}

	slog.Info("Running database migrations", "database", dbPath, "from", before)
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	after, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	slog.Info("Database migrations completed", "version", after)
	return nil
}
