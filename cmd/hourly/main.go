// Command hourly prints an hourly tide reconstruction for a station as CSV.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rbenavides/marigram/pkg/export"
	"github.com/rbenavides/marigram/pkg/harmonic"
	"github.com/rbenavides/marigram/pkg/noaa"
	"github.com/rbenavides/marigram/pkg/series"
)

func main() {
	station := flag.Int("station", int(noaa.SantaCruz), "NOAA station id")
	days := flag.Int("days", 30, "days of observed history to fit")
	forecast := flag.Int("forecast", 7, "days to predict past the history")
	units := flag.String("units", "m", "height units, m or ft")
	flag.Parse()

	unit, err := series.ParseUnit(*units)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	query := noaa.WaterLevelQuery{
		Start:   now.Add(-time.Duration(*days) * 24 * time.Hour),
		End:     now,
		Station: noaa.Station(*station),
		Unit:    unit,
	}
	observed, err := noaa.GetWaterLevels(&query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch from NOAA: %v\n", err)
		os.Exit(1)
	}

	cat := harmonic.StandardCatalogue().ForSpan(observed.End().Sub(observed.Start()))
	model, err := harmonic.Fit(observed, cat, harmonic.FitOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fit failed: %v\n", err)
		os.Exit(1)
	}

	end := now.Add(time.Duration(*forecast) * 24 * time.Hour)
	grid, err := series.Grid(observed.Start(), end, time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	hourly, err := model.Predict(grid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := export.SeriesCSV(os.Stdout, hourly); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
