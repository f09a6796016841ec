package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/price-curator/internal/cli"
	"github.com/Veraticus/price-curator/internal/config"
	"github.com/Veraticus/price-curator/internal/model"
	"github.com/Veraticus/price-curator/internal/service"
)

const exportPageSize = 1000

// exportLine is one JSONL training row.
type exportLine struct {
	Text  string  `json:"text"`
	Price float64 `json:"price"`
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored examples as JSON Lines",
		Long: `Write stored examples as JSON Lines rows of {"text", "price"}.

By default text is the full training prompt. With --test it is the test
prompt, which stops right after "Price is $".`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringP("out", "o", "-", "Output file (- for stdout)")
	cmd.Flags().Bool("test", false, "Export test prompts instead of training prompts")
	cmd.Flags().String("run", "", "Only export examples from this run")
	cmd.Flags().String("category", "", "Only export examples in this category")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	outPath, _ := cmd.Flags().GetString("out")
	testMode, _ := cmd.Flags().GetBool("test")
	runID, _ := cmd.Flags().GetString("run")
	category, _ := cmd.Flags().GetString("category")

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := initStorage(ctx, settings)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	w := bufio.NewWriter(out)
	filter := service.ExampleFilter{RunID: runID, Category: category, Limit: exportPageSize}
	written, err := exportExamples(ctx, store, w, filter, testMode)
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if outPath != "-" {
		slog.Info(cli.FormatSuccess(fmt.Sprintf("Exported %d examples to %s", written, outPath)))
	}
	return nil
}

// exportExamples pages through stored examples matching filter and writes one
// JSON line per example.
func exportExamples(ctx context.Context, store service.Storage, w io.Writer, filter service.ExampleFilter, testMode bool) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	written := 0
	for {
		page, err := store.GetExamples(ctx, filter)
		if err != nil {
			return written, err
		}

		for i := range page {
			text, err := exportText(&page[i], testMode)
			if err != nil {
				return written, err
			}
			if err := enc.Encode(exportLine{Text: text, Price: page[i].Price}); err != nil {
				return written, fmt.Errorf("failed to encode example: %w", err)
			}
			written++
		}

		if len(page) < filter.Limit {
			return written, nil
		}
		filter.Offset += len(page)
	}
}

func exportText(ex *model.CuratedExample, testMode bool) (string, error) {
	if testMode {
		return ex.TestPrompt()
	}
	return ex.Prompt, nil
}
