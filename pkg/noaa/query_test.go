package noaa

import (
	"fmt"
	"testing"
	"time"

	"github.com/rbenavides/marigram/pkg/series"
)

func TestQueryValues(t *testing.T) {
	in := WaterLevelQuery{
		Start:   time.Date(2020, time.January, 5, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2020, time.January, 6, 0, 0, 0, 0, time.UTC),
		Station: SantaCruz,
		Unit:    series.Meters,
	}
	vals := in.build()

	want := map[string]string{
		"begin_date": "20200105 00:00",
		"end_date":   "20200106 00:00",
		"station":    fmt.Sprintf("%d", SantaCruz),
		"product":    "water_level",
		"datum":      "MLLW",
		"time_zone":  "gmt",
		"units":      "metric",
		"format":     "json",
	}
	for k, v := range want {
		if got := vals.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestUnitsParam(t *testing.T) {
	if got := unitsParam(series.Feet); got != "english" {
		t.Errorf("feet = %q, want english", got)
	}
	if got := unitsParam(series.Meters); got != "metric" {
		t.Errorf("meters = %q, want metric", got)
	}
}
