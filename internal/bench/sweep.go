package bench

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	regioneval "github.com/jamesainslie/go-regioneval"
	"github.com/jamesainslie/go-regioneval/source"
)

// SweepResult holds metrics for one minimum IoU.
type SweepResult struct {
	MinimumIoU float64
	Metrics    Metrics
	Summary    *regioneval.Summary
}

// SweepThresholds generates thresholds from min to max inclusive with the given step.
// Values are computed from the step index so rounding does not drop the last one.
func SweepThresholds(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	n := int(math.Floor((max-min)/step+1e-9)) + 1
	thresholds := make([]float64, 0, n)
	for i := range n {
		t := math.Round((min+float64(i)*step)*1e6) / 1e6
		thresholds = append(thresholds, t)
	}
	return thresholds
}

// Sweep evaluates paperIDs once per threshold and returns results sorted by
// weighted score, best first. Regions are loaded once and reused across
// thresholds.
func Sweep(ctx context.Context, actual, expected regioneval.Target, paperIDs []string, thresholds []float64, cfg Config, opts ...regioneval.Option) ([]SweepResult, error) {
	actual.Source = source.NewMemo(actual.Source)
	expected.Source = source.NewMemo(expected.Source)

	results := make([]SweepResult, 0, len(thresholds))
	for _, threshold := range thresholds {
		ev, err := regioneval.New(actual, expected, append(slices.Clone(opts), regioneval.WithMinimumIoU(threshold))...)
		if err != nil {
			return nil, fmt.Errorf("threshold %.3f: %w", threshold, err)
		}

		s, err := ev.EvaluateCorpus(ctx, paperIDs)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			MinimumIoU: threshold,
			Metrics:    Evaluate(s, cfg),
			Summary:    s,
		})
	}

	slices.SortStableFunc(results, func(a, b SweepResult) int {
		return cmp.Compare(b.Metrics.WeightedScore, a.Metrics.WeightedScore)
	})

	return results, nil
}
