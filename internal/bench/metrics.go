package bench

import (
	regioneval "github.com/jamesainslie/go-regioneval"
)

// Config holds scoring weights.
type Config struct {
	PrecisionWeight float64
	RecallWeight    float64
}

// DefaultConfig returns equal precision and recall weights.
func DefaultConfig() Config {
	return Config{
		PrecisionWeight: 1.0,
		RecallWeight:    1.0,
	}
}

// Metrics holds corpus-wide scores for one run.
//
// Precision, Recall and F1 are micro averages over pooled region counts.
// MacroPrecision and MacroRecall are the per-paper averages from the
// Summary and stay nil when no paper contributes.
type Metrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	F1             float64
	WeightedScore  float64

	MacroPrecision *float64
	MacroRecall    *float64
}

// Evaluate pools the region counts of every evaluated paper in s.
func Evaluate(s *regioneval.Summary, cfg Config) Metrics {
	var tp, actual, expected int
	for _, r := range s.Results {
		tp += r.Matched
		actual += r.Actual
		expected += r.Expected
	}

	m := score(tp, actual-tp, expected-tp, cfg)
	m.MacroPrecision = s.AveragePrecision
	m.MacroRecall = s.AverageRecall
	return m
}

func score(tp, fp, fn int, cfg Config) Metrics {
	m := Metrics{
		TruePositives:  tp,
		FalsePositives: fp,
		FalseNegatives: fn,
	}

	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	wp := cfg.PrecisionWeight
	wr := cfg.RecallWeight
	if wp+wr > 0 {
		m.WeightedScore = (wp*m.Precision + wr*m.Recall) / (wp + wr)
	}

	return m
}
