// Package config loads evaluation settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	regioneval "github.com/jamesainslie/go-regioneval"
	"github.com/jamesainslie/go-regioneval/source"
)

// Config holds the settings of one evaluation run. Zero values fall back to
// the evaluator defaults.
type Config struct {
	// DSN is a PostgreSQL connection string. Resolve falls back to
	// $DATABASE_URL when neither DSN nor Fixtures is set.
	DSN string `yaml:"dsn"`

	// Fixtures is a YAML fixture document used instead of the database.
	Fixtures string `yaml:"fixtures"`

	MinimumIoU   *float64      `yaml:"minimum_iou"`
	Workers      int           `yaml:"workers"`
	PaperTimeout time.Duration `yaml:"paper_timeout"`
	EntityTypes  []string      `yaml:"entity_types"`

	Actual   Side `yaml:"actual"`
	Expected Side `yaml:"expected"`

	Papers Papers `yaml:"papers"`
}

// Side selects the schema and version one side of the comparison is read from.
type Side struct {
	Schema  string `yaml:"schema"`
	Version *int   `yaml:"version"`
}

// Papers selects which papers to evaluate.
type Papers struct {
	IDs     []string `yaml:"ids"`
	IDsFile string   `yaml:"ids_file"`
	All     bool     `yaml:"all"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Actual:   Side{Schema: source.DefaultSchema},
		Expected: Side{Schema: source.DefaultSchema},
	}
}

// Load reads path over the defaults. Environment variables in the file are
// expanded and unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	c := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return c, nil
}

// Resolve fills in settings taken from the environment and validates the result.
func (c *Config) Resolve() error {
	if c.DSN == "" && c.Fixtures == "" {
		c.DSN = os.Getenv("DATABASE_URL")
	}

	return c.Validate()
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.DSN == "" && c.Fixtures == "" {
		return errors.New("config: a database DSN or a fixtures file is required")
	}

	if c.DSN != "" && c.Fixtures != "" {
		return errors.New("config: dsn and fixtures are mutually exclusive")
	}

	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}

	if c.PaperTimeout < 0 {
		return fmt.Errorf("config: paper_timeout must not be negative, got %s", c.PaperTimeout)
	}

	return source.ValidateTypes(c.EntityTypes)
}

// Options converts the settings into evaluator options.
func (c *Config) Options(logger *slog.Logger) []regioneval.Option {
	opts := []regioneval.Option{
		regioneval.WithEntityTypes(c.EntityTypes...),
		regioneval.WithWorkers(c.Workers),
		regioneval.WithPaperTimeout(c.PaperTimeout),
		regioneval.WithLogger(logger),
	}

	if c.MinimumIoU != nil {
		opts = append(opts, regioneval.WithMinimumIoU(*c.MinimumIoU))
	}

	return opts
}
