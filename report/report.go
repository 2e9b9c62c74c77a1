// Package report renders evaluation summaries for people and for machines.
//
// Text writes an aligned, human-readable report. JSON writes the same data as
// a JSON object in which missing ratios are null.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	regioneval "github.com/jamesainslie/go-regioneval"
)

// NotAvailable is printed in place of a ratio with a zero denominator.
const NotAvailable = "n/a"

// Option configures a report.
type Option func(*options)

type options struct {
	pages bool
	lang  language.Tag
}

func defaultOptions() options {
	return options{lang: language.English}
}

// WithPages includes the per page and entity type breakdown of every paper.
func WithPages(on bool) Option {
	return func(o *options) {
		o.pages = on
	}
}

// WithLanguage sets the language used for number formatting (default: English).
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.lang = tag
	}
}

// Text writes a human-readable report of s to w.
func Text(w io.Writer, s *regioneval.Summary, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := message.NewPrinter(o.lang)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	p.Fprintf(tw, "run\t%s\n", s.RunID)
	p.Fprintf(tw, "minimum IoU\t%.2f\n", s.MinimumIoU)
	fmt.Fprintln(tw)

	if len(s.Results) > 0 {
		fmt.Fprintln(tw, "paper\tmatched\tactual\texpected\tprecision\trecall")
	}
	for _, r := range s.Results {
		p.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
			r.PaperID, r.Matched, r.Actual, r.Expected,
			ratio(p, r.Precision), ratio(p, r.Recall))
		if !o.pages {
			continue
		}
		for _, pg := range r.Pages {
			p.Fprintf(tw, "  %s\t%d\t%d\t%d\t%s\t%s\n",
				pg.Key, pg.Matched, pg.Actual, pg.Expected,
				ratio(p, pg.Precision), ratio(p, pg.Recall))
		}
	}
	if len(s.Results) > 0 {
		fmt.Fprintln(tw)
	}

	for _, f := range s.Failures {
		p.Fprintf(tw, "skipped %s\t%v\n", f.PaperID, f.Err)
	}
	if len(s.Failures) > 0 {
		fmt.Fprintln(tw)
	}

	p.Fprintf(tw, "papers evaluated\t%d\n", len(s.Results))
	p.Fprintf(tw, "processing failures\t%d\n", s.ProcessingFailures)
	p.Fprintf(tw, "missing actual\t%d\n", s.MissingActual)
	p.Fprintf(tw, "missing expected\t%d\n", s.MissingExpected)
	p.Fprintf(tw, "average precision\t%s\t(%d papers)\n", ratio(p, s.AveragePrecision), s.PrecisionPapers)
	p.Fprintf(tw, "average recall\t%s\t(%d papers)\n", ratio(p, s.AverageRecall), s.RecallPapers)
	p.Fprintf(tw, "minimum precision\t%s\n", ratio(p, s.MinimumPrecision))
	p.Fprintf(tw, "minimum recall\t%s\n", ratio(p, s.MinimumRecall))

	return tw.Flush()
}

func ratio(p *message.Printer, f *float64) string {
	if f == nil {
		return NotAvailable
	}
	return p.Sprintf("%.3f", *f)
}
