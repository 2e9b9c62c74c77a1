package regioneval

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/jamesainslie/go-regioneval/match"
	"github.com/jamesainslie/go-regioneval/source"
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	minimumIoU   float64
	entityTypes  []string
	workers      int
	paperTimeout time.Duration
	logger       *slog.Logger
}

func defaultConfig() config {
	return config{
		minimumIoU:  match.DefaultMinimumIoU,
		entityTypes: source.EntityTypes,
		workers:     runtime.NumCPU(),
		logger:      slog.Default(),
	}
}

// WithMinimumIoU sets the similarity a pair needs to match (default: 0.35).
func WithMinimumIoU(t float64) Option {
	return func(c *config) {
		c.minimumIoU = t
	}
}

// WithEntityTypes restricts evaluation to the given entity types
// (default: citation, symbol, sentence, equation).
func WithEntityTypes(types ...string) Option {
	return func(c *config) {
		if len(types) > 0 {
			c.entityTypes = types
		}
	}
}

// WithWorkers sets how many papers are evaluated concurrently (default: runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithPaperTimeout bounds loading and scoring of a single paper. Zero disables it.
func WithPaperTimeout(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.paperTimeout = d
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
