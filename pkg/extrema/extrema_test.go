package extrema

import (
	"math"
	"testing"
	"time"

	"github.com/rbenavides/marigram/pkg/series"
)

var t0 = time.Date(2020, time.July, 6, 0, 0, 0, 0, time.UTC)

func fromHeights(t *testing.T, heights []float64) series.Series {
	t.Helper()
	samples := make([]series.Sample, len(heights))
	for i, h := range heights {
		samples[i] = series.Sample{
			Time:   t0.Add(time.Duration(i) * 10 * time.Minute),
			Height: series.Height(h),
		}
	}
	s, err := series.New(series.Meters, samples)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFindSineWave(t *testing.T) {
	// Pure M2-period sine sampled every 10 minutes over 48 hours: exactly
	// 4 highs and 4 lows, alternating.
	const periodHours = 12.42
	omega := 2 * math.Pi / periodHours

	var heights []float64
	for m := 0; m <= 48*60; m += 10 {
		heights = append(heights, math.Sin(omega*float64(m)/60))
	}
	events, err := Find(fromHeights(t, heights))
	if err != nil {
		t.Fatal(err)
	}

	highs, lows := 0, 0
	for _, e := range events {
		switch e.Kind {
		case High:
			highs++
		case Low:
			lows++
		}
	}
	if highs != 4 || lows != 4 {
		t.Errorf("got %d highs and %d lows, want 4 and 4", highs, lows)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Kind == events[i-1].Kind {
			t.Fatalf("events %d and %d share kind %s", i-1, i, events[i].Kind)
		}
	}
}

func TestFindNeighborBounds(t *testing.T) {
	heights := []float64{0, 1, 0.5, 1.5, 0.2, 0.9, 0.1}
	s := fromHeights(t, heights)
	events, err := Find(s)
	if err != nil {
		t.Fatal(err)
	}
	// Every reported event must bound both its source neighbors.
	for _, e := range events {
		var i int
		for i = 0; i < s.Len(); i++ {
			if s.At(i).Time.Equal(e.Time) {
				break
			}
		}
		prev, next := s.At(i-1).Height, s.At(i+1).Height
		switch e.Kind {
		case High:
			if e.Height < prev || e.Height < next {
				t.Errorf("high at %v below a neighbor", e.Time)
			}
		case Low:
			if e.Height > prev || e.Height > next {
				t.Errorf("low at %v above a neighbor", e.Time)
			}
		}
	}
}

func TestFindPlateauCollapses(t *testing.T) {
	// A flat top must produce one high, not one per plateau sample.
	heights := []float64{0, 1, 2, 2, 2, 1, 0, -1, 0}
	events, err := Find(fromHeights(t, heights))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %v", len(events), events)
	}
	if events[0].Kind != High || float64(events[0].Height) != 2 {
		t.Errorf("first event = %v, want a high of 2", events[0])
	}
	if events[1].Kind != Low || float64(events[1].Height) != -1 {
		t.Errorf("second event = %v, want a low of -1", events[1])
	}
}

func TestFindDoubleHumpCollapses(t *testing.T) {
	// Two local maxima with no intervening minimum candidate below both
	// cannot emit two highs in a row.
	heights := []float64{0, 3, 2.9, 3.1, 0, -2, 0}
	events, err := Find(fromHeights(t, heights))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Kind == events[i-1].Kind {
			t.Fatalf("events %d and %d share kind %s", i-1, i, events[i].Kind)
		}
	}
}

func TestFindEdgesNeverReported(t *testing.T) {
	// Monotone rise: endpoints would be the only extrema, and they are
	// excluded.
	events, err := Find(fromHeights(t, []float64{0, 1, 2, 3}))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("got %v, want no events", events)
	}
}

func TestFindShortSeries(t *testing.T) {
	events, err := Find(fromHeights(t, []float64{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("got %v events from a 2-sample series", len(events))
	}
}

func TestFindRejectsMissing(t *testing.T) {
	samples := []series.Sample{
		{Time: t0, Height: 1},
		{Time: t0.Add(time.Hour), Height: series.NA},
		{Time: t0.Add(2 * time.Hour), Height: 0},
	}
	s, err := series.New(series.Meters, samples)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Find(s); err == nil {
		t.Error("Find accepted a series with NA heights")
	}
}
