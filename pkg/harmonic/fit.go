package harmonic

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/rbenavides/marigram/pkg/series"
)

// FitOptions carries the two corrections reference implementations offer.
// Both default to off, and this system always runs with both off; they exist
// so a caller reproducing another station's constants can say so explicitly.
type FitOptions struct {
	// SubtractRunningMean removes a centered 25-hour running mean before
	// fitting, folding the removed level back into MeanLevel.
	SubtractRunningMean bool

	// NodalCorrections toggles 18.6-year nodal amplitude/phase modulation.
	// Upstream predictions for this pipeline are generated with nodal
	// adjustment off, so the factors are held at unity (f=1, u=0) and the
	// toggle changes nothing.
	NodalCorrections bool
}

// InsufficientDataError reports an observed series too small or too short to
// resolve the requested catalogue.
type InsufficientDataError struct {
	Samples  int
	Unknowns int
	Span     time.Duration
	Need     time.Duration
}

func (e *InsufficientDataError) Error() string {
	if e.Samples < e.Unknowns {
		return fmt.Sprintf("harmonic: %d usable samples for %d unknowns", e.Samples, e.Unknowns)
	}
	return fmt.Sprintf("harmonic: record spans %v but the slowest constituent needs %v", e.Span, e.Need)
}

// Fit derives a harmonic Model from an observed series by linear least
// squares. For each catalogue constituent it contributes cos(omega*t) and
// sin(omega*t) design columns, plus a constant column for the mean level,
// and solves the system by QR decomposition. Missing (NA) heights are
// excluded from the system, never treated as zero.
func Fit(obs series.Series, cat Catalogue, opts FitOptions) (Model, error) {
	if err := cat.Validate(); err != nil {
		return Model{}, err
	}
	if obs.Len() == 0 {
		return Model{}, &series.EmptySeriesError{Op: "harmonic.Fit"}
	}

	var times []time.Time
	var heights []float64
	for i := 0; i < obs.Len(); i++ {
		smp := obs.At(i)
		if smp.Height.Missing() {
			continue
		}
		times = append(times, smp.Time)
		heights = append(heights, float64(smp.Height))
	}

	unknowns := 2*len(cat) + 1
	if len(times) < unknowns {
		return Model{}, &InsufficientDataError{Samples: len(times), Unknowns: unknowns}
	}

	span := times[len(times)-1].Sub(times[0])
	if need := cat.Slowest().Period(); span < need {
		return Model{}, &InsufficientDataError{
			Samples:  len(times),
			Unknowns: unknowns,
			Span:     span,
			Need:     need,
		}
	}

	removed := 0.0
	if opts.SubtractRunningMean {
		heights, removed = subtractRunningMean(times, heights)
	}

	n := len(times)
	X := mat.NewDense(n, unknowns, nil)
	for i := 0; i < n; i++ {
		th := hoursSinceEpoch(times[i])
		X.Set(i, 0, 1)
		for j, c := range cat {
			omega := c.Speed * degToRad
			X.Set(i, 1+2*j, math.Cos(omega*th))
			X.Set(i, 2+2*j, math.Sin(omega*th))
		}
	}
	y := mat.NewVecDense(n, heights)

	var qr mat.QR
	qr.Factorize(X)
	coeffs := mat.NewVecDense(unknowns, nil)
	if err := qr.SolveVecTo(coeffs, false, y); err != nil {
		return Model{}, fmt.Errorf("harmonic: least squares solve: %w", err)
	}

	terms := make([]Term, len(cat))
	for j, c := range cat {
		a := coeffs.AtVec(1 + 2*j)
		b := coeffs.AtVec(2 + 2*j)
		// a*cos(wt) + b*sin(wt) == A*cos(wt - phi) with A = hypot(a, b)
		// and phi = atan2(b, a). Predict must use the same convention.
		phase := math.Atan2(b, a)
		if phase < 0 {
			phase += 2 * math.Pi
		}
		terms[j] = Term{Name: c.Name, Speed: c.Speed, Amplitude: math.Hypot(a, b), Phase: phase}
	}

	return Model{
		MeanLevel: coeffs.AtVec(0) + removed,
		Terms:     terms,
		Unit:      obs.Unit(),
		Start:     times[0],
		End:       times[len(times)-1],
	}, nil
}

// subtractRunningMean removes a centered 25-hour moving average from the
// heights and returns the demeaned heights along with the overall level that
// was removed. 25 hours covers roughly two semidiurnal cycles.
func subtractRunningMean(times []time.Time, heights []float64) ([]float64, float64) {
	const window = 25 * time.Hour
	half := window / 2

	out := make([]float64, len(heights))
	total := 0.0
	lo := 0
	hi := 0
	for i := range heights {
		for lo < len(times) && times[i].Sub(times[lo]) > half {
			lo++
		}
		for hi < len(times) && times[hi].Sub(times[i]) <= half {
			hi++
		}
		sum := 0.0
		for k := lo; k < hi; k++ {
			sum += heights[k]
		}
		mean := sum / float64(hi-lo)
		out[i] = heights[i] - mean
		total += mean
	}
	return out, total / float64(len(heights))
}
