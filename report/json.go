package report

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	regioneval "github.com/jamesainslie/go-regioneval"
)

// JSON writes s to w as an indented JSON object. Nil ratios are written as null.
// Whitespace in the output is not stable across runs; parse it rather than
// comparing bytes.
func JSON(w io.Writer, s *regioneval.Summary) error {
	st, err := structpb.NewStruct(summaryFields(s))
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')

	_, err = w.Write(data)
	return err
}

func summaryFields(s *regioneval.Summary) map[string]any {
	papers := make([]any, 0, len(s.Results))
	for _, r := range s.Results {
		pages := make([]any, 0, len(r.Pages))
		for _, pg := range r.Pages {
			pages = append(pages, map[string]any{
				"page":      pg.Key.Page,
				"type":      pg.Key.Type,
				"matched":   pg.Matched,
				"actual":    pg.Actual,
				"expected":  pg.Expected,
				"precision": nullable(pg.Precision),
				"recall":    nullable(pg.Recall),
			})
		}
		papers = append(papers, map[string]any{
			"paper_id":  r.PaperID,
			"matched":   r.Matched,
			"actual":    r.Actual,
			"expected":  r.Expected,
			"precision": nullable(r.Precision),
			"recall":    nullable(r.Recall),
			"pages":     pages,
		})
	}

	failures := make([]any, 0, len(s.Failures))
	for _, f := range s.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		failures = append(failures, map[string]any{
			"paper_id": f.PaperID,
			"error":    msg,
		})
	}

	return map[string]any{
		"run_id":              s.RunID,
		"minimum_iou":         s.MinimumIoU,
		"papers":              papers,
		"failures":            failures,
		"processing_failures": s.ProcessingFailures,
		"missing_actual":      s.MissingActual,
		"missing_expected":    s.MissingExpected,
		"precision_papers":    s.PrecisionPapers,
		"recall_papers":       s.RecallPapers,
		"average_precision":   nullable(s.AveragePrecision),
		"average_recall":      nullable(s.AverageRecall),
		"minimum_precision":   nullable(s.MinimumPrecision),
		"minimum_recall":      nullable(s.MinimumRecall),
	}
}

// nullable unwraps f for structpb, which has no notion of a typed nil pointer.
func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
