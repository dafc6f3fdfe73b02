package sunset

import (
	"testing"
	"time"

	"github.com/rbenavides/marigram/pkg/noaa"
)

func TestGetSunEvents(t *testing.T) {
	place, ok := PlaceForStation(noaa.SantaCruz)
	if !ok {
		t.Fatal("no place for Santa Cruz")
	}
	start := time.Date(2020, time.October, 25, 0, 0, 0, 0, place.Location)
	events := GetSunEvents(start, 5*24*time.Hour, place)

	if len(events) != 10 {
		t.Fatalf("got %d events for 5 days, want 10", len(events))
	}
	for i, e := range events {
		wantRise := i%2 == 0
		if (e.Event == Sunrise) != wantRise {
			t.Errorf("event %d = %v, sunrise/sunset order broken", i, e.Event)
		}
	}
	for i := 1; i < len(events); i++ {
		if !events[i].Time.After(events[i-1].Time) {
			t.Errorf("event %d at %v does not advance past %v", i, events[i].Time, events[i-1].Time)
		}
	}
}

func TestDaylight(t *testing.T) {
	place, _ := PlaceForStation(noaa.SantaCruz)
	start := time.Date(2020, time.July, 6, 0, 0, 0, 0, place.Location)
	events := GetSunEvents(start, 24*time.Hour, place)

	noon := time.Date(2020, time.July, 6, 12, 0, 0, 0, place.Location)
	midnight := time.Date(2020, time.July, 6, 1, 0, 0, 0, place.Location)
	if !Daylight(noon, events) {
		t.Error("noon not daylight")
	}
	if Daylight(midnight, events) {
		t.Error("1 AM counted as daylight")
	}
}
