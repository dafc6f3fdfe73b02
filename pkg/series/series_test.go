package series

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewRejectsDisorder(t *testing.T) {
	t0 := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	table := []struct {
		name    string
		samples []Sample
		wantErr bool
	}{{
		name: "ordered",
		samples: []Sample{
			{Time: t0, Height: 1},
			{Time: t0.Add(time.Hour), Height: 2},
		},
	}, {
		name: "duplicate timestamp",
		samples: []Sample{
			{Time: t0, Height: 1},
			{Time: t0, Height: 2},
		},
		wantErr: true,
	}, {
		name: "backwards",
		samples: []Sample{
			{Time: t0.Add(time.Hour), Height: 1},
			{Time: t0, Height: 2},
		},
		wantErr: true,
	}, {
		name: "empty",
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Meters, tc.samples)
			if gotErr := err != nil; gotErr != tc.wantErr {
				t.Errorf("New() err = %v, wantErr = %t", err, tc.wantErr)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	t0 := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	samples := []Sample{{Time: t0, Height: 1}}
	s, err := New(Feet, samples)
	if err != nil {
		t.Fatal(err)
	}
	samples[0].Height = 99
	if got := s.At(0).Height; got != 1 {
		t.Errorf("series aliased caller slice, height = %v", got)
	}
}

func TestNAIsNotZero(t *testing.T) {
	if !NA.Missing() {
		t.Error("NA.Missing() = false")
	}
	if Height(0).Missing() {
		t.Error("zero height reported missing")
	}
}

func TestGrid(t *testing.T) {
	start := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)
	grid, err := Grid(start, start.Add(3*time.Hour), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		start,
		start.Add(1 * time.Hour),
		start.Add(2 * time.Hour),
		start.Add(3 * time.Hour),
	}
	if diff := cmp.Diff(want, grid); diff != "" {
		t.Errorf("Grid() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Grid(start, start.Add(time.Hour), 0); err == nil {
		t.Error("Grid accepted zero step")
	}
	if _, err := Grid(start, start.Add(-time.Hour), time.Hour); err == nil {
		t.Error("Grid accepted end before start")
	}
}

func TestSameUnit(t *testing.T) {
	m, _ := New(Meters, nil)
	f, _ := New(Feet, nil)
	if err := SameUnit(m, m); err != nil {
		t.Errorf("same units flagged: %v", err)
	}
	err := SameUnit(m, f)
	if err == nil {
		t.Fatal("meters vs feet passed the unit check")
	}
	var unitErr *InconsistentUnitsError
	if !errors.As(err, &unitErr) {
		t.Errorf("got %T, want *InconsistentUnitsError", err)
	}
}

func TestWeeksBetween(t *testing.T) {
	// 2020-12-28 is ISO 2020-W53; the span crosses into 2021.
	start := time.Date(2020, time.December, 28, 12, 0, 0, 0, time.UTC)
	end := time.Date(2021, time.January, 15, 0, 0, 0, 0, time.UTC)
	want := []Week{
		{Year: 2020, Week: 53},
		{Year: 2021, Week: 1},
		{Year: 2021, Week: 2},
	}
	if diff := cmp.Diff(want, WeeksBetween(start, end)); diff != "" {
		t.Errorf("WeeksBetween mismatch (-want +got):\n%s", diff)
	}
}
