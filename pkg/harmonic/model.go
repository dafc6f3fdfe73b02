// Package harmonic fits and evaluates sum-of-sinusoids tidal models. The
// astronomical frequencies come from a fixed catalogue; the fitter solves
// only for amplitude and phase per constituent plus a mean level.
package harmonic

import (
	"math"
	"time"

	"github.com/rbenavides/marigram/pkg/series"
)

// Term is one fitted constituent: amplitude in the series' unit, phase in
// radians normalized to [0, 2pi). The reconstruction convention is
// A*cos(omega*t - phase) with t in hours since the Unix epoch.
type Term struct {
	Name      string
	Speed     float64 // degrees per solar hour
	Amplitude float64
	Phase     float64
}

// Model is an immutable fitted harmonic model. Start and End record the
// window of data the fit was derived from; prediction outside that window is
// pure extrapolation and is allowed.
type Model struct {
	MeanLevel float64
	Terms     []Term
	Unit      series.Unit
	Start     time.Time
	End       time.Time
}

// hoursSinceEpoch is the shared time coordinate for fitting and prediction.
// Both sides must agree on it exactly for phases to be meaningful.
func hoursSinceEpoch(t time.Time) float64 {
	return float64(t.Unix()) / 3600.0
}

const degToRad = math.Pi / 180

// Eval computes the model height at a single instant.
func (m Model) Eval(t time.Time) float64 {
	th := hoursSinceEpoch(t)
	h := m.MeanLevel
	for _, term := range m.Terms {
		omega := term.Speed * degToRad
		h += term.Amplitude * math.Cos(omega*th-term.Phase)
	}
	return h
}

// Predict evaluates the model on a time grid, returning a dense predicted
// Series. The grid must be strictly ordered; spacing is arbitrary. Predict
// holds no state and never fails on out-of-window timestamps.
func (m Model) Predict(grid []time.Time) (series.Series, error) {
	samples := make([]series.Sample, len(grid))
	for i, t := range grid {
		samples[i] = series.Sample{Time: t, Height: series.Height(m.Eval(t))}
	}
	return series.New(m.Unit, samples)
}
