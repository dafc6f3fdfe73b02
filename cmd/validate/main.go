// Command validate compares a digitized tide record against a harmonic
// reconstruction and reports residual statistics.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rbenavides/marigram/pkg/align"
	"github.com/rbenavides/marigram/pkg/export"
	"github.com/rbenavides/marigram/pkg/extrema"
	"github.com/rbenavides/marigram/pkg/harmonic"
	"github.com/rbenavides/marigram/pkg/ingest"
	"github.com/rbenavides/marigram/pkg/logger"
	"github.com/rbenavides/marigram/pkg/meta"
	"github.com/rbenavides/marigram/pkg/noaa"
	"github.com/rbenavides/marigram/pkg/residual"
	"github.com/rbenavides/marigram/pkg/series"
	"github.com/rbenavides/marigram/pkg/sunset"
)

func main() {
	var (
		observedPath  = flag.String("observed", "", "Observed water level CSV (time,height); fetched from -station when empty")
		digitizedPath = flag.String("digitized", "", "Digitized record CSV to validate (required)")
		station       = flag.Int("station", int(noaa.SantaCruz), "NOAA station id to fetch when -observed is empty")
		days          = flag.Int("days", 30, "Days of observed history to fetch")
		units         = flag.String("units", "m", "Height units, m or ft")
		mode          = flag.String("mode", "dense", "Comparison mode: dense (spline to the digitized timestamps) or nearest (match extrema)")
		maxGap        = flag.Duration("max-gap", 0, "Largest observation-to-event gap accepted in nearest mode; 0 for unlimited")
		topN          = flag.Int("top", residual.DefaultTopN, "How many outliers to rank")
		runningMean   = flag.Bool("running-mean", false, "Subtract a 25h running mean before fitting")
		seriesOut     = flag.String("series-csv", "", "Optional path for the hourly reconstruction CSV")
		eventsOut     = flag.String("events-csv", "", "Optional path for the predicted high/low CSV")
		debug         = flag.Bool("debug", false, "Verbose development logging")
	)
	flag.Parse()

	if err := logger.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *digitizedPath == "" {
		logger.Fatalf("-digitized is required")
	}
	unit, err := series.ParseUnit(*units)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	observed, err := loadObserved(*observedPath, noaa.Station(*station), *days, unit)
	if err != nil {
		logger.Fatalf("loading observed record: %v", err)
	}
	logger.Infow("observed record loaded",
		"samples", observed.Len(),
		"start", observed.Start(),
		"end", observed.End())

	span := observed.End().Sub(observed.Start())
	cat := harmonic.StandardCatalogue().ForSpan(span)
	model, err := harmonic.Fit(observed, cat, harmonic.FitOptions{
		SubtractRunningMean: *runningMean,
	})
	if err != nil {
		logger.Fatalf("fit failed: %v", err)
	}
	logger.Infow("model fitted",
		"constituents", len(model.Terms),
		"mean_level", model.MeanLevel)

	grid, err := series.Grid(observed.Start(), observed.End(), 6*time.Minute)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	dense, err := model.Predict(grid)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	events, err := extrema.Find(dense)
	if err != nil {
		logger.Fatalf("finding extrema: %v", err)
	}

	digitized, err := readCSV(*digitizedPath, unit)
	if err != nil {
		logger.Fatalf("loading digitized record: %v", err)
	}

	var records []residual.Record
	switch *mode {
	case "dense":
		reconstructed, err := align.ToDense(digitized, dense)
		if err != nil {
			logger.Fatalf("alignment failed: %v", err)
		}
		records, err = residual.Join(digitized, reconstructed)
		if err != nil {
			logger.Fatalf("%v", err)
		}
	case "nearest":
		matches := align.Nearest(digitized, events, align.NearestOptions{
			MaxGap: *maxGap,
		})
		records = residual.FromMatches(matches)
	default:
		logger.Fatalf("unknown mode %q: want dense or nearest", *mode)
	}

	summary, err := residual.Summarize(records, *topN)
	if err != nil {
		logger.Fatalf("no comparable records: %v", err)
	}

	if err := export.ResidualReport(os.Stdout, summary, unit); err != nil {
		logger.Fatalf("%v", err)
	}
	fmt.Println()
	if err := export.WeeklyReport(os.Stdout, residual.ByWeek(records, *topN)); err != nil {
		logger.Fatalf("%v", err)
	}

	printDaylightFlags(noaa.Station(*station), observed.Start(), span, summary)

	if *seriesOut != "" {
		hourlyGrid, err := series.Grid(observed.Start(), observed.End(), time.Hour)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		hourly, err := model.Predict(hourlyGrid)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		if err := writeFile(*seriesOut, func(f *os.File) error {
			return export.SeriesCSV(f, hourly)
		}); err != nil {
			logger.Fatalf("writing %s: %v", *seriesOut, err)
		}
	}
	if *eventsOut != "" {
		if err := writeFile(*eventsOut, func(f *os.File) error {
			return export.EventsCSV(f, events)
		}); err != nil {
			logger.Fatalf("writing %s: %v", *eventsOut, err)
		}
	}
}

func loadObserved(path string, station noaa.Station, days int, unit series.Unit) (series.Series, error) {
	if path != "" {
		return readCSV(path, unit)
	}
	now := time.Now()
	return noaa.GetWaterLevels(&noaa.WaterLevelQuery{
		Start:   now.Add(-time.Duration(days) * 24 * time.Hour),
		End:     now,
		Station: station,
		Unit:    unit,
	})
}

func readCSV(path string, unit series.Unit) (series.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return series.Series{}, err
	}
	defer f.Close()
	return ingest.Read(f, unit)
}

// printDaylightFlags calls out ranked outliers that fall outside daylight,
// where digitized readings are least trustworthy. Stations without known
// coordinates are skipped.
func printDaylightFlags(station noaa.Station, start time.Time, span time.Duration, summary residual.Summary) {
	place, ok := sunset.PlaceForStation(station)
	if !ok {
		return
	}
	suns := sunset.GetSunEvents(start, span, place)
	flags := meta.Flags(meta.Conditions{
		Outliers:  summary.Top,
		SunEvents: suns,
	})
	if len(flags) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Outliers outside daylight:")
	for i := range flags {
		fmt.Printf("  %s\n", flags[i].String())
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
