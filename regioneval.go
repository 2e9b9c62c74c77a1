package regioneval

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-regioneval/match"
	"github.com/jamesainslie/go-regioneval/region"
	"github.com/jamesainslie/go-regioneval/source"
)

// Target names where one side of the comparison is loaded from.
type Target struct {
	Source source.Source
	Schema string
	// Version selects the entity data version. Nil selects the most recent.
	Version *int
}

// Evaluator compares extracted regions against ground truth regions.
// It is safe for concurrent use.
type Evaluator struct {
	actual       Target
	expected     Target
	minimumIoU   float64
	entityTypes  []string
	workers      int
	paperTimeout time.Duration
	logger       *slog.Logger
}

// New creates an Evaluator reading extracted regions from actual and ground
// truth regions from expected. Configuration errors, such as a minimum IoU
// outside [0, 1], are reported here before any data is read.
func New(actual, expected Target, opts ...Option) (*Evaluator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if actual.Source == nil || expected.Source == nil {
		return nil, ErrNoSource
	}
	if err := match.ValidateThreshold(cfg.minimumIoU); err != nil {
		return nil, err
	}
	if err := source.ValidateTypes(cfg.entityTypes); err != nil {
		return nil, err
	}

	return &Evaluator{
		actual:       actual,
		expected:     expected,
		minimumIoU:   cfg.minimumIoU,
		entityTypes:  slices.Clone(cfg.entityTypes),
		workers:      cfg.workers,
		paperTimeout: cfg.paperTimeout,
		logger:       cfg.logger,
	}, nil
}

// MinimumIoU returns the configured match threshold.
func (e *Evaluator) MinimumIoU() float64 { return e.minimumIoU }

// ExpectedActualPair is the unit of comparison: the actual and expected
// regions of one entity type on one page.
type ExpectedActualPair struct {
	Key      region.Key
	Actual   region.Collection
	Expected region.Collection
}

// Pairs returns one pair for every key holding regions on either side,
// sorted by entity type and then page.
func Pairs(actual, expected region.Regions) []ExpectedActualPair {
	keys := append(actual.Keys(), expected.Keys()...)
	slices.SortFunc(keys, region.CompareKeys)
	keys = slices.Compact(keys)

	pairs := make([]ExpectedActualPair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, ExpectedActualPair{
			Key:      k,
			Actual:   actual[k],
			Expected: expected[k],
		})
	}
	return pairs
}

// EvaluatePaper loads both sides for one paper and scores every page and
// entity type. It returns an error wrapping ErrNoData when either store has
// no record of the paper, or when neither side has any region of the
// configured types.
func (e *Evaluator) EvaluatePaper(ctx context.Context, paperID string) (*AccuracyResult, error) {
	if e.paperTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.paperTimeout)
		defer cancel()
	}

	actual, err := e.load(ctx, e.actual, paperID)
	if err != nil {
		return nil, fmt.Errorf("loading extracted regions: %w", err)
	}
	expected, err := e.load(ctx, e.expected, paperID)
	if err != nil {
		return nil, fmt.Errorf("loading ground truth regions: %w", err)
	}

	if actual.Count() == 0 && expected.Count() == 0 {
		return nil, fmt.Errorf("%w: %s has no regions of types %v", ErrNoData, paperID, e.entityTypes)
	}

	var matched, totalActual, totalExpected int
	pairs := Pairs(actual, expected)
	pages := make([]PageResult, 0, len(pairs))
	for _, p := range pairs {
		res, err := match.Match(p.Actual, p.Expected, e.minimumIoU)
		if err != nil {
			return nil, err
		}

		pr := PageResult{
			Key:       p.Key,
			Actual:    len(p.Actual),
			Expected:  len(p.Expected),
			Matched:   len(res.Matches),
			Precision: res.Precision,
			Recall:    res.Recall,
		}
		pages = append(pages, pr)

		e.logger.Debug("page evaluated",
			"paper", paperID,
			"page", p.Key.Page,
			"type", p.Key.Type,
			"actual", pr.Actual,
			"expected", pr.Expected,
			"matched", pr.Matched,
		)

		totalActual += pr.Actual
		totalExpected += pr.Expected
		matched += pr.Matched
	}

	result := NewAccuracyResult(paperID, matched, totalExpected, totalActual)
	result.Pages = pages
	return result, nil
}

func (e *Evaluator) load(ctx context.Context, t Target, paperID string) (region.Regions, error) {
	return t.Source.Regions(ctx, source.Request{
		PaperID: paperID,
		Schema:  t.Schema,
		Version: t.Version,
		Types:   e.entityTypes,
	})
}

// EvaluateCorpus evaluates every paper, several at a time, and reduces the
// results. A paper that fails to load is logged, recorded in
// Summary.Failures and skipped; only cancellation of ctx aborts the run.
// Results keep the order of paperIDs.
func (e *Evaluator) EvaluateCorpus(ctx context.Context, paperIDs []string) (*Summary, error) {
	runID := uuid.NewString()
	logger := e.logger.With("run", runID)
	logger.Info("evaluating corpus",
		"papers", len(paperIDs),
		"minimum_iou", e.minimumIoU,
		"types", e.entityTypes,
	)

	results := make([]*AccuracyResult, len(paperIDs))
	errs := make([]error, len(paperIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, id := range paperIDs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := e.EvaluatePaper(gctx, id)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("skipping paper", "paper", id, "error", err)
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failures []PaperFailure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, PaperFailure{PaperID: paperIDs[i], Err: err})
		}
	}

	summary := Reduce(results, failures)
	summary.RunID = runID
	summary.MinimumIoU = e.minimumIoU

	logger.Info("corpus evaluated",
		"processed", len(summary.Results),
		"failed", summary.ProcessingFailures,
		"missing_actual", summary.MissingActual,
		"missing_expected", summary.MissingExpected,
	)
	return summary, nil
}
