package noaa

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rbenavides/marigram/pkg/series"
)

const wireTimeFormat = "2006-01-02 15:04"

// Reading holds a single observed water level row from the API.
type Reading struct {
	// UTC time of the observation
	Time Time `json:"t"`
	// Water level relative to MLLW; missing when the sensor dropped out
	Height Height `json:"v"`
}

// Verify the custom types can be unmarshaled
var _ json.Unmarshaler = &Time{}
var _ json.Unmarshaler = new(Height)

// Readings is a time series of Reading.
type Readings []Reading

// waterLevelResult is the shape the CO-OPS API returns for water_level.
type waterLevelResult struct {
	Data Readings `json:"data"`
}

// WaterLevelQuery asks for observed water levels at a station over a window.
type WaterLevelQuery struct {
	Start   time.Time
	End     time.Time
	Station Station
	Unit    series.Unit
}

type Station int

const (
	SantaCruz Station = 9413745
	Monterey  Station = 9413450
	LaJolla   Station = 9410230
	FortPoint Station = 9414290
)

type Time time.Time

func (t *Time) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("reading time %q not string: %w", buf, err)
	}
	parsed, err := time.ParseInLocation(wireTimeFormat, s, time.UTC)
	if err != nil {
		return fmt.Errorf("reading time %q not in fmt %q: %w", s, wireTimeFormat, err)
	}
	*t = Time(parsed)
	return nil
}

type Height float64

func (h *Height) UnmarshalJSON(buf []byte) error {
	var s string
	if err := json.Unmarshal(buf, &s); err != nil {
		return fmt.Errorf("water height %q not string: %w", buf, err)
	}
	if s == "" {
		// The gauge reports gaps as empty strings.
		*h = Height(series.NA)
		return nil
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("water height %q not a float: %w", s, err)
	}
	*h = Height(parsed)
	return nil
}

func (r Reading) String() string {
	return fmt.Sprintf("{t: %s, v: %f}",
		time.Time(r.Time).Format(time.RFC822),
		float64(r.Height))
}

// Series converts API readings into the core series type, preserving missing
// values as NA.
func (rs Readings) Series(unit series.Unit) (series.Series, error) {
	samples := make([]series.Sample, len(rs))
	for i, r := range rs {
		samples[i] = series.Sample{
			Time:   time.Time(r.Time),
			Height: series.Height(r.Height),
		}
	}
	s, err := series.New(unit, samples)
	if err != nil {
		return series.Series{}, fmt.Errorf("noaa: station data violates ordering: %w", err)
	}
	return s, nil
}
