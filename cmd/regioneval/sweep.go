package main

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-regioneval/internal/bench"
)

func newSweepCmd(f *flags) *cobra.Command {
	var (
		sweepMin, sweepMax, sweepStep float64
		wp, wr                        float64
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Score the corpus across a range of minimum IoU values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			thresholds := bench.SweepThresholds(sweepMin, sweepMax, sweepStep)
			if len(thresholds) == 0 {
				return errors.New("empty sweep: need --sweep-step > 0 and --sweep-min <= --sweep-max")
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

			// Per-threshold corpus logs are noise here; keep warnings only.
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			cfg := bench.Config{PrecisionWeight: wp, RecallWeight: wr}

			results, err := bench.Sweep(ctx, st.actual, st.expected, ids, thresholds, cfg, c.Options(logger)...)
			if err != nil {
				return err
			}

			printSweep(cmd, results, cfg)
			return nil
		},
	}

	cmd.Flags().Float64Var(&sweepMin, "sweep-min", 0.05, "Sweep minimum IoU")
	cmd.Flags().Float64Var(&sweepMax, "sweep-max", 0.95, "Sweep maximum IoU")
	cmd.Flags().Float64Var(&sweepStep, "sweep-step", 0.05, "Sweep step size")
	cmd.Flags().Float64Var(&wp, "wp", 1.0, "Precision weight")
	cmd.Flags().Float64Var(&wr, "wr", 1.0, "Recall weight")

	return cmd
}

func printSweep(cmd *cobra.Command, results []bench.SweepResult, cfg bench.Config) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Minimum IoU Sweep Results (wp=%.1f, wr=%.1f)\n", cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "%-8s %-8s %-8s %-8s %-8s\n", "IoU", "Prec", "Rec", "F1", "Weighted")

	// Print sorted by threshold for readability
	byIoU := slices.Clone(results)
	slices.SortFunc(byIoU, func(a, b bench.SweepResult) int {
		return cmp.Compare(a.MinimumIoU, b.MinimumIoU)
	})
	for _, r := range byIoU {
		fmt.Fprintf(w, "%-8.3f %-8.2f %-8.2f %-8.2f %-8.2f\n",
			r.MinimumIoU, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.Metrics.WeightedScore)
	}

	fmt.Fprintln(w, strings.Repeat("-", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(w, "Optimal: %.3f (Weighted: %.2f)\n", best.MinimumIoU, best.Metrics.WeightedScore)
	}
}
