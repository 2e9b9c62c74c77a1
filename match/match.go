// Package match pairs predicted regions with expected regions by geometric
// similarity and scores the result.
package match

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/jamesainslie/go-regioneval/region"
)

// DefaultMinimumIoU is the similarity threshold used for entity localization
// accuracy reports.
const DefaultMinimumIoU = 0.35

// ErrInvalidThreshold indicates a minimum IoU outside [0, 1].
var ErrInvalidThreshold = errors.New("match: minimum IoU must be within [0, 1]")

// Pair is a committed match. The indices refer to positions in the
// collections passed to Match.
type Pair struct {
	Actual        region.Region
	Expected      region.Region
	ActualIndex   int
	ExpectedIndex int
	IoU           float64
}

// Result holds the outcome of matching one collection pair.
// Precision is nil when there were no actual regions and Recall is nil when
// there were no expected regions.
type Result struct {
	Precision *float64
	Recall    *float64
	Matches   []Pair
}

// ValidateThreshold reports whether minimumIoU is usable.
func ValidateThreshold(minimumIoU float64) error {
	if math.IsNaN(minimumIoU) || minimumIoU < 0 || minimumIoU > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, minimumIoU)
	}
	return nil
}

type candidate struct {
	actual, expected         int // input positions
	actualRank, expectedRank int // canonical positions, for tie-breaks
	iou                      float64
}

// Match greedily pairs actual and expected regions, highest IoU first.
// A pair is eligible when its IoU is at least minimumIoU, and each region
// takes part in at most one pair. Ties are broken by the canonical order of
// the expected region and then of the actual region, so the matched set does
// not depend on the order of either input.
func Match(actual, expected region.Collection, minimumIoU float64) (Result, error) {
	if err := ValidateThreshold(minimumIoU); err != nil {
		return Result{}, err
	}

	actualRank := canonicalRanks(actual)
	expectedRank := canonicalRanks(expected)

	var candidates []candidate
	for ai, a := range actual {
		for ei, e := range expected {
			iou := region.IoU(a, e)
			if iou < minimumIoU {
				continue
			}
			candidates = append(candidates, candidate{
				actual:       ai,
				expected:     ei,
				actualRank:   actualRank[ai],
				expectedRank: expectedRank[ei],
				iou:          iou,
			})
		}
	}

	slices.SortFunc(candidates, func(x, y candidate) int {
		if c := cmp.Compare(y.iou, x.iou); c != 0 {
			return c
		}
		if c := cmp.Compare(x.expectedRank, y.expectedRank); c != 0 {
			return c
		}
		return cmp.Compare(x.actualRank, y.actualRank)
	})

	usedActual := make([]bool, len(actual))
	usedExpected := make([]bool, len(expected))
	var matches []Pair
	for _, c := range candidates {
		if usedActual[c.actual] || usedExpected[c.expected] {
			continue
		}
		usedActual[c.actual] = true
		usedExpected[c.expected] = true
		matches = append(matches, Pair{
			Actual:        actual[c.actual],
			Expected:      expected[c.expected],
			ActualIndex:   c.actual,
			ExpectedIndex: c.expected,
			IoU:           c.iou,
		})
	}

	return Result{
		Precision: Ratio(len(matches), len(actual)),
		Recall:    Ratio(len(matches), len(expected)),
		Matches:   matches,
	}, nil
}

// Ratio returns n/d, or nil when d is zero.
func Ratio(n, d int) *float64 {
	if d == 0 {
		return nil
	}
	r := float64(n) / float64(d)
	return &r
}

// canonicalRanks returns, for each input position, the position the region
// would take if the collection were sorted. Identical regions keep their
// input order among themselves.
func canonicalRanks(c region.Collection) []int {
	order := make([]int, len(c))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return region.Compare(c[i], c[j])
	})

	ranks := make([]int, len(c))
	for rank, i := range order {
		ranks[i] = rank
	}
	return ranks
}
