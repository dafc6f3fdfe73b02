// Package series holds the water-level time series types shared by every
// stage of the reconstruction pipeline. A Series is a value: stages derive
// new ones, they never mutate their inputs.
package series

import (
	"fmt"
	"math"
	"time"
)

// Unit is the linear unit of a height measurement. A series carries exactly
// one unit; mixing units across compared series is an error, never an
// implicit conversion.
type Unit int

const (
	Meters Unit = iota
	Feet
)

func (u Unit) String() string {
	switch u {
	case Meters:
		return "m"
	case Feet:
		return "ft"
	default:
		return "invalid"
	}
}

// ParseUnit reads the short unit names used on CLI flags and query strings.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "m", "meters", "metric":
		return Meters, nil
	case "ft", "feet", "english":
		return Feet, nil
	}
	return 0, fmt.Errorf("unknown unit %q", s)
}

// Height is a water level measurement. NA marks a missing observation, which
// is distinct from a height of zero.
type Height float64

// NA is the explicit no-data marker. Use Missing to test for it; NaN never
// compares equal to itself.
var NA = Height(math.NaN())

func (h Height) Missing() bool {
	return math.IsNaN(float64(h))
}

// Sample is one timestamped height. Timestamps are absolute instants; the
// pipeline works in UTC throughout.
type Sample struct {
	Time   time.Time
	Height Height
}

// Series is an ordered water-level record with strictly increasing
// timestamps and a single unit. The zero Series is empty and usable.
type Series struct {
	unit    Unit
	samples []Sample
}

// New builds a Series, copying samples and enforcing the ordering contract:
// strictly increasing timestamps, no duplicates. Callers are expected to have
// deduplicated upstream; a violation here is an input error, not something to
// repair silently.
func New(unit Unit, samples []Sample) (Series, error) {
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	for i := 1; i < len(cp); i++ {
		if !cp[i].Time.After(cp[i-1].Time) {
			return Series{}, fmt.Errorf("series: sample %d at %v does not advance past %v",
				i, cp[i].Time, cp[i-1].Time)
		}
	}
	return Series{unit: unit, samples: cp}, nil
}

// FromValues builds a Series from parallel time and height slices.
func FromValues(unit Unit, times []time.Time, heights []float64) (Series, error) {
	if len(times) != len(heights) {
		return Series{}, fmt.Errorf("series: %d times but %d heights", len(times), len(heights))
	}
	samples := make([]Sample, len(times))
	for i := range times {
		samples[i] = Sample{Time: times[i], Height: Height(heights[i])}
	}
	return New(unit, samples)
}

func (s Series) Unit() Unit { return s.unit }
func (s Series) Len() int   { return len(s.samples) }
func (s Series) At(i int) Sample {
	return s.samples[i]
}

// Start and End bound the series in time. They are only meaningful when the
// series is non-empty.
func (s Series) Start() time.Time {
	if len(s.samples) == 0 {
		return time.Time{}
	}
	return s.samples[0].Time
}

func (s Series) End() time.Time {
	if len(s.samples) == 0 {
		return time.Time{}
	}
	return s.samples[len(s.samples)-1].Time
}

// Times returns a fresh slice of the series' timestamps.
func (s Series) Times() []time.Time {
	ts := make([]time.Time, len(s.samples))
	for i, smp := range s.samples {
		ts[i] = smp.Time
	}
	return ts
}

// Heights returns a fresh slice of the series' heights, NA included.
func (s Series) Heights() []float64 {
	hs := make([]float64, len(s.samples))
	for i, smp := range s.samples {
		hs[i] = float64(smp.Height)
	}
	return hs
}

// SameUnit reports whether two series may be compared directly, returning an
// InconsistentUnitsError when they may not.
func SameUnit(a, b Series) error {
	if a.unit != b.unit {
		return &InconsistentUnitsError{A: a.unit, B: b.unit}
	}
	return nil
}

// Grid builds a regular time sequence from start to end inclusive, stepping
// by step. It is the shared grid for dense prediction and hourly resampling.
func Grid(start, end time.Time, step time.Duration) ([]time.Time, error) {
	if step <= 0 {
		return nil, fmt.Errorf("series: grid step %v is not positive", step)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("series: grid end %v precedes start %v", end, start)
	}
	var grid []time.Time
	for t := start; !t.After(end); t = t.Add(step) {
		grid = append(grid, t)
	}
	return grid, nil
}
