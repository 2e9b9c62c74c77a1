// Package regioneval measures how well extracted entity bounding boxes line up
// with annotated ground truth on rendered document pages.
//
// # Quick Start
//
//	extracted, err := source.OpenPostgres(ctx, dsn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer extracted.Close()
//
//	gold := source.NewPostgres(extracted.DB(), source.WithFilter(source.GoldSymbols))
//
//	ev, err := regioneval.New(
//	    regioneval.Target{Source: extracted, Schema: "public"},
//	    regioneval.Target{Source: gold, Schema: "gold"},
//	    regioneval.WithMinimumIoU(0.35),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := ev.EvaluateCorpus(ctx, []string{"1601.00978"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report.Text(os.Stdout, summary)
//
// # Matching
//
// Regions of one entity type on one page are paired greedily, highest
// intersection-over-union first, where the IoU of two regions is computed
// between the unions of their rectangles. Pairs below the minimum IoU never
// match and each region matches at most once.
//
// # Missing Data
//
// Precision and recall are nil rather than zero when their denominator is
// zero. Corpus averages and minimums skip nil values, and papers with no data
// at all are counted as processing failures.
//
// # Thread Safety
//
// Evaluator is safe for concurrent use. EvaluateCorpus evaluates papers
// concurrently, bounded by WithWorkers.
package regioneval
