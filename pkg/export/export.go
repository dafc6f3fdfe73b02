// Package export renders pipeline output for persistence and reporting. It
// only ever writes to an io.Writer handed in by the caller; the core itself
// touches no files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/rbenavides/marigram/pkg/extrema"
	"github.com/rbenavides/marigram/pkg/residual"
	"github.com/rbenavides/marigram/pkg/series"
)

const naField = "NA"

// SeriesCSV writes a series as "time,height" rows, RFC 3339 timestamps,
// missing heights as NA. The hourly-resampled prediction export uses this.
func SeriesCSV(w io.Writer, s series.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "height"}); err != nil {
		return err
	}
	for i := 0; i < s.Len(); i++ {
		smp := s.At(i)
		field := naField
		if !smp.Height.Missing() {
			field = fmt.Sprintf("%.3f", float64(smp.Height))
		}
		if err := cw.Write([]string{smp.Time.UTC().Format(time.RFC3339), field}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EventsCSV writes detected extrema as "time,height,type" rows for overlay
// tooling.
func EventsCSV(w io.Writer, events []extrema.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "height", "type"}); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			e.Time.UTC().Format(time.RFC3339),
			fmt.Sprintf("%.3f", float64(e.Height)),
			e.Kind.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ResidualReport writes a whole-record residual summary with its top
// outliers as a fixed-width text table.
func ResidualReport(w io.Writer, s residual.Summary, unit series.Unit) error {
	var err error
	pr := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	pr("Residual summary (%s)\n", unit)
	pr("  count  %d\n", s.Count)
	pr("  mean   %+.3f\n", s.Mean)
	pr("  median %+.3f\n", s.Median)
	pr("  max    %+.3f\n", s.Max)
	pr("  min    %+.3f\n", s.Min)
	pr("\nLargest residuals\n")
	pr("%-20s | %9s | %9s | %9s\n", "time", "observed", "predicted", "residual")
	pr("---------------------+-----------+-----------+----------\n")
	for _, r := range s.Top {
		pr("%-20s | %9.3f | %9.3f | %+9.3f\n",
			r.Time.UTC().Format("2006-01-02 15:04"),
			float64(r.Observed), float64(r.Predicted), float64(r.Residual))
	}
	return err
}

// WeeklyReport writes one row per week. Weeks with nothing to summarize get
// an explicit "no data" row instead of numbers.
func WeeklyReport(w io.Writer, weeks []residual.WeekSummary) error {
	var err error
	pr := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	pr("%-9s | %5s | %7s | %7s | %7s | %4s | %4s\n",
		"week", "count", "mean", "median", "max", "high", "low")
	pr("----------+-------+---------+---------+---------+------+-----\n")
	for _, wk := range weeks {
		if wk.NoData {
			pr("%-9s | %5s | %7s | %7s | %7s | %4d | %4d\n",
				wk.Week, "-", "no data", "-", "-", wk.Highs, wk.Lows)
			continue
		}
		pr("%-9s | %5d | %+7.3f | %+7.3f | %+7.3f | %4d | %4d\n",
			wk.Week, wk.Summary.Count, wk.Summary.Mean, wk.Summary.Median,
			wk.Summary.Max, wk.Highs, wk.Lows)
	}
	return err
}
