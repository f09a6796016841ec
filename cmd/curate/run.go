package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/price-curator/internal/catalog"
	"github.com/Veraticus/price-curator/internal/cli"
	"github.com/Veraticus/price-curator/internal/common"
	"github.com/Veraticus/price-curator/internal/config"
	"github.com/Veraticus/price-curator/internal/curate"
	"github.com/Veraticus/price-curator/internal/model"
	"github.com/Veraticus/price-curator/internal/service"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <catalog.jsonl>...",
		Short: "Curate catalog files into training examples",
		Long: `Read one or more JSON Lines catalog files, curate every priced record,
and store the included examples along with a summary of the run.

Files may be gzip compressed (.jsonl.gz). Unless --category is given, the
category is taken from each file name (meta_Appliances.jsonl -> Appliances).`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCurate,
	}

	cmd.Flags().String("category", "", "Category recorded on every example")
	cmd.Flags().IntP("workers", "w", 0, "Records curated in parallel (default from config)")
	cmd.Flags().String("rules", "", "YAML file replacing the details removal list")
	cmd.Flags().Bool("dry-run", false, "Curate and summarize without saving")

	// Bind to viper
	_ = viper.BindPFlag(config.KeyCategory, cmd.Flags().Lookup("category"))
	_ = viper.BindPFlag(config.KeyWorkers, cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag(config.KeyRulesFile, cmd.Flags().Lookup("rules"))

	return cmd
}

func runCurate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	curator, err := newCurator(settings)
	if err != nil {
		return err
	}

	var store service.Storage
	if dryRun {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
	} else {
		s, err := initStorage(ctx, settings)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	reader := catalog.NewReader(settings.Category)
	for _, path := range args {
		started := time.Now()

		result, err := reader.ReadFile(ctx, path)
		if err != nil {
			return err
		}

		if len(result.Records) == 0 {
			return common.NewUserError(fmt.Sprintf("%s has nothing to curate (%d lines, %d unpriced)", path, result.Lines, result.Unpriced), common.ErrEmptyCatalog)
		}

		category := settings.Category
		if category == "" {
			category = catalog.CategoryFromPath(path)
		}

		progress := cli.NewProgress(cmd.ErrOrStderr(), len(result.Records), "Curating "+category+"...")
		examples, stats, err := curate.Batch(ctx, curator, result.Records, settings.Workers, progress.Add)
		progress.Finish()
		if err != nil {
			return fmt.Errorf("failed to curate %s: %w", path, err)
		}

		run := &model.Run{
			ID:           uuid.NewString(),
			Source:       path,
			Category:     category,
			StartedAt:    started,
			Total:        stats.Total,
			Included:     stats.Included,
			TooFewChars:  stats.TooFewChars,
			TooFewTokens: stats.TooFewTokens,
		}

		if store != nil {
			if err := store.SaveRun(ctx, run); err != nil {
				return err
			}
			if err := store.SaveExamples(ctx, run.ID, curate.Included(examples)); err != nil {
				return err
			}
		}

		slog.Info("Curated catalog",
			"run_id", run.ID,
			"path", path,
			"included", stats.Included,
			"excluded", run.Excluded(),
			"duration", time.Since(started).Round(time.Millisecond))

		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox("Curation Summary", runSummary(run, result.Unpriced, stats, store != nil)))
	}

	return nil
}

func runSummary(run *model.Run, unpriced int, stats curate.BatchStats, stored bool) string {
	pairs := []cli.KV{
		{Label: "Source", Value: run.Source},
		{Label: "Category", Value: run.Category},
		{Label: "Records", Value: run.Total},
		{Label: "Unpriced", Value: unpriced},
		{Label: "Included", Value: cli.SuccessStyle.Render(fmt.Sprint(run.Included))},
		{Label: "Too short", Value: run.TooFewChars},
		{Label: "Too few tokens", Value: run.TooFewTokens},
		{Label: "Mean tokens", Value: fmt.Sprintf("%.1f", stats.MeanPromptTokens())},
	}
	if stored {
		pairs = append(pairs, cli.KV{Label: "Run", Value: run.ID})
	}
	return cli.RenderKV(pairs...)
}
