package regioneval

import (
	"slices"

	"github.com/jamesainslie/go-regioneval/match"
	"github.com/jamesainslie/go-regioneval/region"
)

// PageResult holds match counts for one (page, entity type) pair.
type PageResult struct {
	Key       region.Key
	Actual    int
	Expected  int
	Matched   int
	Precision *float64
	Recall    *float64
}

// AccuracyResult holds the totals for one paper.
// Precision is nil when the paper has no actual regions and Recall is nil
// when it has no expected regions.
type AccuracyResult struct {
	PaperID   string
	Matched   int
	Expected  int
	Actual    int
	Precision *float64
	Recall    *float64
	Pages     []PageResult
}

// NewAccuracyResult computes precision and recall from paper totals.
func NewAccuracyResult(paperID string, matched, expected, actual int) *AccuracyResult {
	return &AccuracyResult{
		PaperID:   paperID,
		Matched:   matched,
		Expected:  expected,
		Actual:    actual,
		Precision: match.Ratio(matched, actual),
		Recall:    match.Ratio(matched, expected),
	}
}

// PaperFailure records a paper that could not be evaluated.
type PaperFailure struct {
	PaperID string
	Err     error
}

// Summary is the corpus-level reduction of per-paper results.
//
// Averages and minimums are taken over papers with a non-nil ratio only, so
// a paper without actual regions never pulls average precision towards zero.
// They are nil when no paper contributes.
type Summary struct {
	RunID      string
	MinimumIoU float64

	Results  []*AccuracyResult
	Failures []PaperFailure

	ProcessingFailures int
	MissingActual      int
	MissingExpected    int

	// PrecisionPapers and RecallPapers count the papers averaged.
	PrecisionPapers int
	RecallPapers    int

	AveragePrecision *float64
	AverageRecall    *float64
	MinimumPrecision *float64
	MinimumRecall    *float64
}

// Reduce folds per-paper results and failures into a Summary.
// Nil results are ignored.
func Reduce(results []*AccuracyResult, failures []PaperFailure) *Summary {
	s := &Summary{
		Failures:           failures,
		ProcessingFailures: len(failures),
	}

	var precisions, recalls []float64
	for _, r := range results {
		if r == nil {
			continue
		}
		s.Results = append(s.Results, r)

		if r.Precision != nil {
			precisions = append(precisions, *r.Precision)
		} else {
			s.MissingActual++
		}

		if r.Recall != nil {
			recalls = append(recalls, *r.Recall)
		} else {
			s.MissingExpected++
		}
	}

	s.PrecisionPapers = len(precisions)
	s.RecallPapers = len(recalls)
	s.AveragePrecision = mean(precisions)
	s.AverageRecall = mean(recalls)
	s.MinimumPrecision = minimum(precisions)
	s.MinimumRecall = minimum(recalls)

	return s
}

func mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	m := sum / float64(len(xs))
	return &m
}

func minimum(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := slices.Min(xs)
	return &m
}
