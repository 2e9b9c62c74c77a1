package bench

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	regioneval "github.com/jamesainslie/go-regioneval"
	"github.com/jamesainslie/go-regioneval/region"
	"github.com/jamesainslie/go-regioneval/source"
)

func TestSweepThresholds(t *testing.T) {
	tests := []struct {
		name           string
		min, max, step float64
		want           []float64
	}{
		{"inclusive range", 0.1, 0.5, 0.1, []float64{0.1, 0.2, 0.3, 0.4, 0.5}},
		{"single value", 0.35, 0.35, 0.05, []float64{0.35}},
		{"step past max", 0.2, 0.5, 0.2, []float64{0.2, 0.4}},
		{"zero step", 0.1, 0.5, 0, nil},
		{"inverted range", 0.5, 0.1, 0.1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SweepThresholds(tt.min, tt.max, tt.step)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				diff := got[i] - tt.want[i]
				if diff < -1e-9 || diff > 1e-9 {
					t.Errorf("threshold[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

const sweepFixtures = `
schemas:
  public:
    papers:
      "p":
        - index: 0
          entities:
            - id: "1"
              type: citation
              boxes:
                - {left: 0, top: 0, width: 10, height: 10, page: 0}
            - id: "2"
              type: equation
              boxes:
                - {left: 0, top: 0, width: 4, height: 10, page: 0}
  gold:
    papers:
      "p":
        - index: 0
          entities:
            - id: "g1"
              type: citation
              boxes:
                - {left: 0, top: 0, width: 10, height: 6, page: 0}
            - id: "g2"
              type: equation
              boxes:
                - {left: 0, top: 0, width: 10, height: 10, page: 0}
`

type countingSource struct {
	source.Source
	calls atomic.Int32
}

func (c *countingSource) Regions(ctx context.Context, req source.Request) (region.Regions, error) {
	c.calls.Add(1)
	return c.Source.Regions(ctx, req)
}

func TestSweep(t *testing.T) {
	f, err := source.ParseFile([]byte(sweepFixtures), nil)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	src := &countingSource{Source: f}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// The citation pair has IoU 0.6 and the equation pair 0.4.
	results, err := Sweep(context.Background(),
		regioneval.Target{Source: src, Schema: "public"},
		regioneval.Target{Source: src, Schema: "gold"},
		[]string{"p"},
		[]float64{0.7, 0.3, 0.5},
		DefaultConfig(),
		regioneval.WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	wantOrder := []float64{0.3, 0.5, 0.7}
	wantTP := []int{2, 1, 0}
	if len(results) != len(wantOrder) {
		t.Fatalf("got %d results, want %d", len(results), len(wantOrder))
	}
	for i, r := range results {
		if r.MinimumIoU != wantOrder[i] {
			t.Errorf("results[%d].MinimumIoU = %v, want %v", i, r.MinimumIoU, wantOrder[i])
		}
		if r.Metrics.TruePositives != wantTP[i] {
			t.Errorf("results[%d] TP = %d, want %d", i, r.Metrics.TruePositives, wantTP[i])
		}
		if r.Summary == nil || r.Summary.MinimumIoU != r.MinimumIoU {
			t.Errorf("results[%d] summary does not match its threshold", i)
		}
	}

	if got := src.calls.Load(); got != 2 {
		t.Errorf("underlying source called %d times, want 2 (once per side)", got)
	}
}

func TestSweepInvalidThreshold(t *testing.T) {
	f, err := source.ParseFile([]byte(sweepFixtures), nil)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	_, err = Sweep(context.Background(),
		regioneval.Target{Source: f, Schema: "public"},
		regioneval.Target{Source: f, Schema: "gold"},
		[]string{"p"},
		[]float64{0.5, 1.5},
		DefaultConfig(),
	)
	if err == nil {
		t.Fatal("Sweep() with threshold 1.5 should fail")
	}
}
