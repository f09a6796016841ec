package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/price-curator/internal/cli"
	"github.com/Veraticus/price-curator/internal/config"
	"github.com/Veraticus/price-curator/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply any pending schema migrations to the curation database.`,
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show the current schema version without migrating")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	before, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if status {
		fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d of %d (%s)\n", before, storage.ExpectedSchemaVersion, store.Path())
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	after, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if after == before {
		slog.Info(cli.FormatSuccess("Database is up to date"), "version", after)
		return nil
	}
	slog.Info(cli.FormatSuccess("Migrations applied"), "from", before, "to", after, "path", store.Path())
	return nil
}
