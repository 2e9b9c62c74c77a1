package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtures = "../../testdata/fixtures.yaml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEvaluateJSON(t *testing.T) {
	out, err := run(t, "evaluate",
		"--fixtures", fixtures,
		"--expected-schema", "gold",
		"--all-papers",
		"--format", "json",
	)
	require.NoError(t, err)

	var got struct {
		AveragePrecision *float64 `json:"average_precision"`
		AverageRecall    *float64 `json:"average_recall"`
		MissingExpected  int      `json:"missing_expected"`
		Papers           []struct {
			PaperID  string `json:"paper_id"`
			Matched  int    `json:"matched"`
			Actual   int    `json:"actual"`
			Expected int    `json:"expected"`
		} `json:"papers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	require.Len(t, got.Papers, 2)
	first := got.Papers[0]
	assert.Equal(t, "1601.00978", first.PaperID)
	assert.Equal(t, 4, first.Actual)
	// The operator symbol is not part of the ground truth set.
	assert.Equal(t, 3, first.Expected)
	assert.Equal(t, 3, first.Matched)

	assert.Equal(t, "2004.14974", got.Papers[1].PaperID)
	assert.Equal(t, 1, got.MissingExpected)
	require.NotNil(t, got.AveragePrecision)
	assert.InDelta(t, 0.375, *got.AveragePrecision, 1e-9)
	require.NotNil(t, got.AverageRecall)
	assert.InDelta(t, 1.0, *got.AverageRecall, 1e-9)
}

func TestEvaluateText(t *testing.T) {
	out, err := run(t, "evaluate",
		"--fixtures", fixtures,
		"--expected-schema", "gold",
		"--arxiv-ids", "1601.00978,9999.99999",
		"--entity-types", "citation",
		"--pages",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "citation@0")
	assert.Contains(t, out, "skipped 9999.99999")
	assert.NotContains(t, out, "symbol@0")
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "no papers",
			args: []string{"evaluate", "--fixtures", fixtures},
			want: "no papers selected",
		},
		{
			name: "two paper selectors",
			args: []string{"evaluate", "--fixtures", fixtures, "--all-papers", "--arxiv-ids", "x"},
			want: "mutually exclusive",
		},
		{
			name: "no store",
			args: []string{"evaluate", "--arxiv-ids", "x"},
			want: "DSN or a fixtures file",
		},
		{
			name: "bad threshold",
			args: []string{"evaluate", "--fixtures", fixtures, "--arxiv-ids", "x", "--minimum-iou", "2"},
			want: "minimum IoU",
		},
		{
			name: "bad format",
			args: []string{"evaluate", "--fixtures", fixtures, "--arxiv-ids", "x", "--format", "xml"},
			want: "unknown format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSweep(t *testing.T) {
	out, err := run(t, "sweep",
		"--fixtures", fixtures,
		"--expected-schema", "gold",
		"--all-papers",
		"--sweep-min", "0.5",
		"--sweep-max", "0.7",
		"--sweep-step", "0.1",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "0.700")
	assert.Contains(t, out, "Optimal: 0.500")
}
