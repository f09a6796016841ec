package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/price-curator/internal/cli"
	"github.com/Veraticus/price-curator/internal/config"
)

func runsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored curation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			settings, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("No runs stored yet"))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTED\tCATEGORY\tTOTAL\tINCLUDED\tTOO SHORT\tTOO FEW TOKENS\tSOURCE")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					run.Category,
					run.Total,
					run.Included,
					run.TooFewChars,
					run.TooFewTokens,
					run.Source)
			}
			return tw.Flush()
		},
	}
}
