package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/price-curator/internal/catalog"
	"github.com/Veraticus/price-curator/internal/cli"
	"github.com/Veraticus/price-curator/internal/common"
	"github.com/Veraticus/price-curator/internal/config"
	"github.com/Veraticus/price-curator/internal/model"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <catalog.jsonl>",
		Short: "Curate a single catalog record and show the result",
		Long: `Curate the record on one line of a catalog file and print the decision,
the rendered prompt and the test prompt. Nothing is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().IntP("line", "n", 1, "Line number of the record (1-based)")
	cmd.Flags().String("category", "", "Category recorded on the example")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	line, _ := cmd.Flags().GetInt("line")
	category, _ := cmd.Flags().GetString("category")

	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	rec, err := catalog.NewReader(category).ReadLine(args[0], line)
	if errors.Is(err, catalog.ErrUnpriced) {
		return common.NewUserError(fmt.Sprintf("line %d has no usable price and would be skipped", line), err)
	}
	if err != nil {
		return err
	}

	curator, err := newCurator(settings)
	if err != nil {
		return err
	}

	ex, err := curator.Curate(rec, rec.Price)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	details := curator.Scrubber().ScrubDetails(rec.Details)
	fmt.Fprintln(out, cli.RenderBox(ex.String(), inspectSummary(ex, details)))
	if !ex.Include {
		return nil
	}

	testPrompt, err := ex.TestPrompt()
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.FormatTitle("Prompt"))
	fmt.Fprintln(out, ex.Prompt)
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.FormatTitle("Test prompt"))
	fmt.Fprintln(out, testPrompt)
	return nil
}

// inspectSummary lists the decision for ex. details is the scrubbed form of
// the record's details, shown as it entered the prompt text.
func inspectSummary(ex *model.CuratedExample, details string) string {
	decision := cli.FormatSuccess("included")
	if !ex.Include {
		decision = cli.FormatWarning("excluded (" + strings.ReplaceAll(string(ex.Exclusion), "_", " ") + ")")
	}

	pairs := []cli.KV{
		{Label: "Decision", Value: decision},
		{Label: "Category", Value: ex.Category},
	}
	if details != "" {
		pairs = append(pairs, cli.KV{Label: "Details", Value: details})
	}
	if ex.Include {
		pairs = append(pairs, cli.KV{Label: "Prompt tokens", Value: ex.TokenCount})
	}
	return cli.RenderKV(pairs...)
}
