package regioneval

import (
	"errors"

	"github.com/jamesainslie/go-regioneval/match"
	"github.com/jamesainslie/go-regioneval/source"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrNoData indicates a paper has no record in the actual or expected store,
	// or no regions of the requested types in either. The paper is skipped.
	ErrNoData = source.ErrNoData

	// ErrInvalidThreshold indicates a minimum IoU outside [0, 1].
	ErrInvalidThreshold = match.ErrInvalidThreshold

	// ErrNoSource indicates an Evaluator was created without a region source.
	ErrNoSource = errors.New("regioneval: region source is required")
)
