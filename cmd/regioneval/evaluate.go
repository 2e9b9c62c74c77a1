package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	regioneval "github.com/jamesainslie/go-regioneval"
	"github.com/jamesainslie/go-regioneval/report"
)

func newEvaluateCmd(f *flags) *cobra.Command {
	var (
		format string
		pages  bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute precision and recall of extracted boxes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q: want text or json", format)
			}

			c, err := f.config(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, ids, err := load(ctx, c)
			if err != nil {
				return err
			}
			defer func() { _ = st.close() }()

			ev, err := regioneval.New(st.actual, st.expected, c.Options(slog.Default())...)
			if err != nil {
				return err
			}

			summary, err := ev.EvaluateCorpus(ctx, ids)
			if err != nil {
				return err
			}

			if format == "json" {
				return report.JSON(cmd.OutOrStdout(), summary)
			}
			return report.Text(cmd.OutOrStdout(), summary, report.WithPages(pages))
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&pages, "pages", false, "Include the per page and entity type breakdown")

	return cmd
}
