package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	regioneval "github.com/jamesainslie/go-regioneval"
	"github.com/jamesainslie/go-regioneval/internal/config"
	"github.com/jamesainslie/go-regioneval/source"
)

// flags holds the persistent flags shared by every subcommand.
// Values set on the command line override the config file.
type flags struct {
	configPath string
	verbose    bool

	dsn      string
	fixtures string

	arxivIDs     []string
	arxivIDsFile string
	allPapers    bool

	expectedSchema  string
	expectedVersion int
	actualSchema    string
	actualVersion   int

	entityTypes  []string
	minimumIoU   float64
	workers      int
	paperTimeout time.Duration
}

func (f *flags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()

	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Log every page and entity type")

	pf.StringVar(&f.dsn, "dsn", "", "PostgreSQL connection string (default $DATABASE_URL)")
	pf.StringVar(&f.fixtures, "fixtures", "", "Read regions from a YAML fixture file instead of the database")

	pf.StringSliceVar(&f.arxivIDs, "arxiv-ids", nil, "Papers to evaluate")
	pf.StringVar(&f.arxivIDsFile, "arxiv-ids-file", "", "File listing papers to evaluate, one per line")
	pf.BoolVar(&f.allPapers, "all-papers", false, "Evaluate every paper in the expected schema")

	pf.StringVar(&f.expectedSchema, "expected-schema", source.DefaultSchema, "Schema containing the ground truth boxes")
	pf.IntVar(&f.expectedVersion, "expected-version", 0, "Ground truth entity data version (default most recent)")
	pf.StringVar(&f.actualSchema, "actual-schema", source.DefaultSchema, "Schema containing the extracted boxes")
	pf.IntVar(&f.actualVersion, "actual-version", 0, "Extracted entity data version (default most recent)")

	pf.StringSliceVar(&f.entityTypes, "entity-types", source.EntityTypes, "Entity types to evaluate")
	pf.Float64Var(&f.minimumIoU, "minimum-iou", 0.35, "IoU a pair of regions needs to match")
	pf.IntVar(&f.workers, "workers", 0, "Papers evaluated concurrently (default number of CPUs)")
	pf.DurationVar(&f.paperTimeout, "paper-timeout", 0, "Time limit per paper, e.g. 30s")
}

// config loads the config file, if any, and applies the flags that were set.
func (f *flags) config(cmd *cobra.Command) (*config.Config, error) {
	c := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	changed := cmd.Flags().Changed

	if changed("dsn") {
		c.DSN = f.dsn
	}
	if changed("fixtures") {
		c.Fixtures = f.fixtures
		if !changed("dsn") {
			c.DSN = ""
		}
	}
	if changed("arxiv-ids") {
		c.Papers.IDs = f.arxivIDs
	}
	if changed("arxiv-ids-file") {
		c.Papers.IDsFile = f.arxivIDsFile
	}
	if changed("all-papers") {
		c.Papers.All = f.allPapers
	}
	if changed("expected-schema") {
		c.Expected.Schema = f.expectedSchema
	}
	if changed("expected-version") {
		v := f.expectedVersion
		c.Expected.Version = &v
	}
	if changed("actual-schema") {
		c.Actual.Schema = f.actualSchema
	}
	if changed("actual-version") {
		v := f.actualVersion
		c.Actual.Version = &v
	}
	if changed("entity-types") {
		c.EntityTypes = f.entityTypes
	}
	if changed("minimum-iou") {
		v := f.minimumIoU
		c.MinimumIoU = &v
	}
	if changed("workers") {
		c.Workers = f.workers
	}
	if changed("paper-timeout") {
		c.PaperTimeout = f.paperTimeout
	}

	if err := c.Resolve(); err != nil {
		return nil, err
	}
	return c, nil
}

// stores holds both sides of the comparison and the papers to evaluate.
type stores struct {
	actual   regioneval.Target
	expected regioneval.Target
	papers   source.Enumerator
	close    func() error
}

// open connects to the configured store. Ground truth symbols are restricted
// to the types annotators label.
func open(ctx context.Context, c *config.Config) (*stores, error) {
	var (
		actualSrc, expectedSrc source.Source
		all                    source.Enumerator
		closeFn                = func() error { return nil }
	)

	if c.Fixtures != "" {
		actual, err := source.LoadFile(c.Fixtures, nil)
		if err != nil {
			return nil, err
		}
		expected, err := source.LoadFile(c.Fixtures, source.GoldSymbols)
		if err != nil {
			return nil, err
		}
		actualSrc, expectedSrc = actual, expected
		all = expected.PaperIDs(c.Expected.Schema)
	} else {
		actual, err := source.OpenPostgres(ctx, c.DSN)
		if err != nil {
			return nil, err
		}
		expected := source.NewPostgres(actual.DB(), source.WithFilter(source.GoldSymbols))
		actualSrc, expectedSrc = actual, expected
		all = expected.Papers(c.Expected.Schema)
		closeFn = actual.Close
	}

	papers, err := selectPapers(c.Papers, all)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	return &stores{
		actual:   regioneval.Target{Source: actualSrc, Schema: c.Actual.Schema, Version: c.Actual.Version},
		expected: regioneval.Target{Source: expectedSrc, Schema: c.Expected.Schema, Version: c.Expected.Version},
		papers:   papers,
		close:    closeFn,
	}, nil
}

func selectPapers(p config.Papers, all source.Enumerator) (source.Enumerator, error) {
	set := 0
	for _, on := range []bool{len(p.IDs) > 0, p.IDsFile != "", p.All} {
		if on {
			set++
		}
	}
	switch {
	case set == 0:
		return nil, errors.New("no papers selected: use --arxiv-ids, --arxiv-ids-file or --all-papers")
	case set > 1:
		return nil, errors.New("--arxiv-ids, --arxiv-ids-file and --all-papers are mutually exclusive")
	case len(p.IDs) > 0:
		return source.IDs(p.IDs), nil
	case p.IDsFile != "":
		return source.IDsFile(p.IDsFile), nil
	default:
		return all, nil
	}
}

// load opens the stores and resolves the paper list.
func load(ctx context.Context, c *config.Config) (*stores, []string, error) {
	st, err := open(ctx, c)
	if err != nil {
		return nil, nil, err
	}

	ids, err := st.papers.PaperIDs(ctx)
	if err != nil {
		_ = st.close()
		return nil, nil, fmt.Errorf("listing papers: %w", err)
	}
	slog.Debug("papers selected", "count", len(ids))

	return st, ids, nil
}
