package noaa

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rbenavides/marigram/pkg/series"
)

const (
	NOAA_URL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"
	TIME_FMT = "20060102 15:04"
)

// GetWaterLevels fetches observed six-minute water levels for a station and
// returns them as a core series in the query's unit.
func GetWaterLevels(q *WaterLevelQuery) (series.Series, error) {
	var result waterLevelResult

	// Build request URL first
	addr, err := url.Parse(NOAA_URL)
	if err != nil {
		return series.Series{}, err
	}

	addr.RawQuery = q.build().Encode()

	// Make the request to NOAA
	resp, err := http.Get(addr.String())
	if err != nil {
		return series.Series{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return series.Series{}, fmt.Errorf("noaa: station %d: %s", q.Station, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return series.Series{}, err
	}

	return result.Data.Series(q.Unit)
}

func (q *WaterLevelQuery) build() url.Values {
	vals := make(url.Values)
	vals.Add("begin_date", q.Start.UTC().Format(TIME_FMT))
	vals.Add("end_date", q.End.UTC().Format(TIME_FMT))
	vals.Add("station", fmt.Sprintf("%d", q.Station))
	vals.Add("product", "water_level")
	vals.Add("datum", "MLLW")
	vals.Add("time_zone", "gmt")
	vals.Add("units", unitsParam(q.Unit))
	vals.Add("format", "json")
	return vals
}

func unitsParam(u series.Unit) string {
	if u == series.Feet {
		return "english"
	}
	return "metric"
}
