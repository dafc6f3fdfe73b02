// Package residual computes observed-minus-predicted statistics for a
// validated tide series: whole-record summaries, top-N outliers, and weekly
// partitioned reports.
package residual

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/rbenavides/marigram/pkg/align"
	"github.com/rbenavides/marigram/pkg/extrema"
	"github.com/rbenavides/marigram/pkg/series"
)

// DefaultTopN is how many largest-magnitude residuals a summary carries when
// the caller does not say otherwise.
const DefaultTopN = 5

// Record pairs an observed and predicted height at one timestamp. Residual
// is exactly Observed - Predicted. Kind is set when the record descends from
// a matched high/low event, nil otherwise.
type Record struct {
	Time      time.Time
	Observed  series.Height
	Predicted series.Height
	Residual  series.Height
	Kind      *extrema.Kind
}

// Join inner-joins two series by exact timestamp equality. Timestamps present
// on only one side are silently excluded, as are pairs where either height is
// missing. Both series must share a unit.
func Join(observed, predicted series.Series) ([]Record, error) {
	if err := series.SameUnit(observed, predicted); err != nil {
		return nil, err
	}

	var records []Record
	i, j := 0, 0
	for i < observed.Len() && j < predicted.Len() {
		o, p := observed.At(i), predicted.At(j)
		switch {
		case o.Time.Before(p.Time):
			i++
		case p.Time.Before(o.Time):
			j++
		default:
			if !o.Height.Missing() && !p.Height.Missing() {
				records = append(records, Record{
					Time:      o.Time,
					Observed:  o.Height,
					Predicted: p.Height,
					Residual:  o.Height - p.Height,
				})
			}
			i++
			j++
		}
	}
	return records, nil
}

// FromMatches converts nearest-match alignment output into records: the
// observation against the reference event's height, timestamped and tagged
// by the event. Matches whose observation is missing are excluded.
func FromMatches(matches []align.Match) []Record {
	var records []Record
	for _, m := range matches {
		if m.Obs.Height.Missing() {
			continue
		}
		kind := m.Event.Kind
		records = append(records, Record{
			Time:      m.Event.Time,
			Observed:  m.Obs.Height,
			Predicted: m.Event.Height,
			Residual:  m.Obs.Height - m.Event.Height,
			Kind:      &kind,
		})
	}
	return records
}

// Summary holds the full-series residual statistics plus the top-N largest
// magnitude residuals with their full context.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Max    float64
	Min    float64
	Top    []Record
}

// Summarize computes a Summary over records, skipping any with a missing
// residual. topN <= 0 selects DefaultTopN. An input with no usable records
// is an EmptySeriesError, not a NaN-valued summary.
func Summarize(records []Record, topN int) (Summary, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	var usable []Record
	for _, r := range records {
		if r.Residual.Missing() {
			continue
		}
		usable = append(usable, r)
	}
	if len(usable) == 0 {
		return Summary{}, &series.EmptySeriesError{Op: "residual.Summarize"}
	}

	vals := make([]float64, len(usable))
	for i, r := range usable {
		vals[i] = float64(r.Residual)
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	ranked := make([]Record, len(usable))
	copy(ranked, usable)
	sort.SliceStable(ranked, func(i, j int) bool {
		return absH(ranked[i].Residual) > absH(ranked[j].Residual)
	})
	if topN > len(ranked) {
		topN = len(ranked)
	}

	return Summary{
		Count:  len(usable),
		Mean:   stat.Mean(vals, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
		Min:    sorted[0],
		Top:    ranked[:topN],
	}, nil
}

func absH(h series.Height) float64 {
	v := float64(h)
	if v < 0 {
		return -v
	}
	return v
}

// WeekSummary is one week's residual report. NoData marks a week inside the
// record's span with no usable records; its Summary is zero and must not be
// read.
type WeekSummary struct {
	Week    series.Week
	NoData  bool
	Summary Summary
	Highs   int
	Lows    int
}

// ByWeek partitions records into ISO weeks and summarizes each. Every week
// between the first and last record appears in order; weeks with nothing
// usable are reported as NoData rather than computed over an empty set.
// Highs and Lows count the event-kind tags present in each week's input.
func ByWeek(records []Record, topN int) []WeekSummary {
	if len(records) == 0 {
		return nil
	}

	byWeek := make(map[series.Week][]Record)
	first, last := records[0].Time, records[0].Time
	for _, r := range records {
		if r.Time.Before(first) {
			first = r.Time
		}
		if r.Time.After(last) {
			last = r.Time
		}
		w := series.WeekOf(r.Time)
		byWeek[w] = append(byWeek[w], r)
	}

	var out []WeekSummary
	for _, w := range series.WeeksBetween(first, last) {
		ws := WeekSummary{Week: w}
		group := byWeek[w]
		for _, r := range group {
			if r.Kind == nil {
				continue
			}
			switch *r.Kind {
			case extrema.High:
				ws.Highs++
			case extrema.Low:
				ws.Lows++
			}
		}
		summary, err := Summarize(group, topN)
		if err != nil {
			ws.NoData = true
		} else {
			ws.Summary = summary
		}
		out = append(out, ws)
	}
	return out
}
