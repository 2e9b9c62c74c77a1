package bench

import (
	"math"
	"testing"

	regioneval "github.com/jamesainslie/go-regioneval"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		results []*regioneval.AccuracyResult
		wantTP  int
		wantFP  int
		wantFN  int
		wantP   float64
		wantR   float64
	}{
		{
			name: "perfect match",
			results: []*regioneval.AccuracyResult{
				regioneval.NewAccuracyResult("a", 3, 3, 3),
			},
			wantTP: 3,
			wantP:  1,
			wantR:  1,
		},
		{
			name: "pooled across papers",
			results: []*regioneval.AccuracyResult{
				regioneval.NewAccuracyResult("a", 1, 1, 3),
				regioneval.NewAccuracyResult("b", 1, 3, 1),
			},
			wantTP: 2,
			wantFP: 2,
			wantFN: 2,
			wantP:  0.5,
			wantR:  0.5,
		},
		{
			name: "nothing extracted",
			results: []*regioneval.AccuracyResult{
				regioneval.NewAccuracyResult("a", 0, 4, 0),
			},
			wantFN: 4,
		},
		{
			name: "empty corpus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Evaluate(regioneval.Reduce(tt.results, nil), DefaultConfig())

			if m.TruePositives != tt.wantTP {
				t.Errorf("TP = %d, want %d", m.TruePositives, tt.wantTP)
			}
			if m.FalsePositives != tt.wantFP {
				t.Errorf("FP = %d, want %d", m.FalsePositives, tt.wantFP)
			}
			if m.FalseNegatives != tt.wantFN {
				t.Errorf("FN = %d, want %d", m.FalseNegatives, tt.wantFN)
			}
			if math.Abs(m.Precision-tt.wantP) > 1e-9 {
				t.Errorf("Precision = %v, want %v", m.Precision, tt.wantP)
			}
			if math.Abs(m.Recall-tt.wantR) > 1e-9 {
				t.Errorf("Recall = %v, want %v", m.Recall, tt.wantR)
			}
		})
	}
}

func TestEvaluateMacro(t *testing.T) {
	s := regioneval.Reduce([]*regioneval.AccuracyResult{
		regioneval.NewAccuracyResult("a", 1, 1, 1),
		regioneval.NewAccuracyResult("b", 1, 4, 4),
		regioneval.NewAccuracyResult("c", 0, 2, 0),
	}, nil)

	m := Evaluate(s, DefaultConfig())

	// Macro precision skips paper c, which has no extracted regions.
	if m.MacroPrecision == nil || math.Abs(*m.MacroPrecision-0.625) > 1e-9 {
		t.Errorf("MacroPrecision = %v, want 0.625", m.MacroPrecision)
	}
	if m.MacroRecall == nil || math.Abs(*m.MacroRecall-(1.25/3)) > 1e-9 {
		t.Errorf("MacroRecall = %v, want %v", m.MacroRecall, 1.25/3)
	}
	// Micro: 2 matched of 5 actual and 7 expected.
	if math.Abs(m.Precision-0.4) > 1e-9 {
		t.Errorf("Precision = %v, want 0.4", m.Precision)
	}
}

func TestScoreWeights(t *testing.T) {
	cfg := Config{PrecisionWeight: 3, RecallWeight: 1}
	m := score(1, 0, 3, cfg)

	// P = 1, R = 0.25
	want := (3*1.0 + 1*0.25) / 4
	if math.Abs(m.WeightedScore-want) > 1e-9 {
		t.Errorf("WeightedScore = %v, want %v", m.WeightedScore, want)
	}
	if math.Abs(m.F1-0.4) > 1e-9 {
		t.Errorf("F1 = %v, want 0.4", m.F1)
	}

	if got := score(0, 0, 0, Config{}); got.WeightedScore != 0 || got.F1 != 0 {
		t.Errorf("zero weights and counts should score 0, got %+v", got)
	}
}
