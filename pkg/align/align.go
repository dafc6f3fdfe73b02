// Package align maps one time series onto another's timestamps: by cubic
// spline interpolation against a dense reference, or by nearest-time
// matching against sparse reference events.
package align

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/interp"

	"github.com/rbenavides/marigram/pkg/extrema"
	"github.com/rbenavides/marigram/pkg/series"
)

// InterpolationRangeError reports a query timestamp outside the reference
// series' covered interval. This path never extrapolates.
type InterpolationRangeError struct {
	Time       time.Time
	Start, End time.Time
}

func (e *InterpolationRangeError) Error() string {
	return fmt.Sprintf("align: %v outside reference interval [%v, %v]", e.Time, e.Start, e.End)
}

// ToDense interpolates the dense reference series at the sparse series' own
// timestamps using a not-a-knot cubic spline, producing a reconstructed value
// for each sparse timestamp. Every sparse timestamp must fall inside the
// dense series' interval.
func ToDense(sparse, dense series.Series) (series.Series, error) {
	if err := series.SameUnit(sparse, dense); err != nil {
		return series.Series{}, err
	}
	if dense.Len() < 4 {
		return series.Series{}, fmt.Errorf("align: reference has %d samples, need at least 4 for a cubic spline", dense.Len())
	}

	xs := make([]float64, dense.Len())
	ys := make([]float64, dense.Len())
	for i := 0; i < dense.Len(); i++ {
		smp := dense.At(i)
		if smp.Height.Missing() {
			return series.Series{}, fmt.Errorf("align: reference has missing height at %v", smp.Time)
		}
		xs[i] = hours(smp.Time)
		ys[i] = float64(smp.Height)
	}

	var spline interp.NotAKnotCubic
	if err := spline.Fit(xs, ys); err != nil {
		return series.Series{}, fmt.Errorf("align: spline fit: %w", err)
	}

	out := make([]series.Sample, sparse.Len())
	for i := 0; i < sparse.Len(); i++ {
		ts := sparse.At(i).Time
		if ts.Before(dense.Start()) || ts.After(dense.End()) {
			return series.Series{}, &InterpolationRangeError{
				Time:  ts,
				Start: dense.Start(),
				End:   dense.End(),
			}
		}
		out[i] = series.Sample{Time: ts, Height: series.Height(spline.Predict(hours(ts)))}
	}
	return series.New(sparse.Unit(), out)
}

// hours maps an instant onto the spline's x axis. Relative to the Unix epoch
// in hours, matching the harmonic fitter's time coordinate.
func hours(t time.Time) float64 {
	return float64(t.Unix()) / 3600.0
}

// NearestOptions configures nearest-match alignment. The zero value imposes
// no distance cutoff.
type NearestOptions struct {
	// MaxGap, when positive, drops observations farther than this from
	// every reference event.
	MaxGap time.Duration
}

// Match pairs one observation with its nearest reference event.
type Match struct {
	Obs   series.Sample
	Event extrema.Event
	Gap   time.Duration
}

// Nearest associates each observation with the reference event whose
// timestamp is closest in absolute time. Events must be in time order, as the
// extrema detector produces them. Ties go to the earlier event.
func Nearest(obs series.Series, events []extrema.Event, opts NearestOptions) []Match {
	if len(events) == 0 {
		return nil
	}

	var matches []Match
	j := 0
	for i := 0; i < obs.Len(); i++ {
		smp := obs.At(i)
		// Observations are ordered, so the candidate index only advances.
		for j+1 < len(events) && absGap(events[j+1], smp) < absGap(events[j], smp) {
			j++
		}
		gap := absGap(events[j], smp)
		if opts.MaxGap > 0 && gap > opts.MaxGap {
			continue
		}
		matches = append(matches, Match{Obs: smp, Event: events[j], Gap: gap})
	}
	return matches
}

func absGap(e extrema.Event, s series.Sample) time.Duration {
	d := e.Time.Sub(s.Time)
	if d < 0 {
		return -d
	}
	return d
}
