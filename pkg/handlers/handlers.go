// Package handlers serves the reconstruction pipeline over HTTP: hourly
// predictions, high/low events, residual validation, and the marigram SVG.
package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/rbenavides/marigram/pkg/align"
	"github.com/rbenavides/marigram/pkg/cache"
	"github.com/rbenavides/marigram/pkg/export"
	"github.com/rbenavides/marigram/pkg/extrema"
	"github.com/rbenavides/marigram/pkg/harmonic"
	"github.com/rbenavides/marigram/pkg/ingest"
	"github.com/rbenavides/marigram/pkg/metrics"
	"github.com/rbenavides/marigram/pkg/noaa"
	"github.com/rbenavides/marigram/pkg/residual"
	"github.com/rbenavides/marigram/pkg/series"
	"github.com/rbenavides/marigram/pkg/sunset"
	"github.com/rbenavides/marigram/pkg/visualize"
)

const (
	day = 24 * time.Hour

	// fitWindow is how much observed history feeds the harmonic fit.
	fitWindow = 30 * day

	// forecastLength is how far past the window predictions extend.
	forecastLength = 7 * day

	cacheTTL = 1 * time.Hour
)

type server struct {
	cache *cache.Timed
	db    *gorm.DB
}

// Register installs all routes on the router. db may be nil; runs are then
// not persisted.
func Register(r *mux.Router, db *gorm.DB) {
	s := &server{
		cache: cache.NewTimed(cacheTTL),
		db:    db,
	}

	r.Handle("/api/v1/tides", s.cached("text/csv", s.serveTides))
	r.Handle("/api/v1/extremes", s.cached("text/csv", s.serveExtremes))
	r.HandleFunc("/api/v1/validate", s.serveValidate).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/validate", s.serveValidateUpload).Methods(http.MethodPost)
	r.Handle("/marigram.svg", s.cached("image/svg+xml", s.serveMarigram))
}

// pipeline is everything the handlers derive from one station fetch.
type pipeline struct {
	station  noaa.Station
	unit     series.Unit
	observed series.Series
	model    harmonic.Model
	dense    series.Series
	events   []extrema.Event
}

// run fetches the fit window of observed water levels, fits a model, and
// predicts a dense six-minute curve extending into the forecast window.
func (s *server) run(station noaa.Station, unit series.Unit, now time.Time) (*pipeline, error) {
	q := noaa.WaterLevelQuery{
		Start:   now.Add(-fitWindow),
		End:     now,
		Station: station,
		Unit:    unit,
	}
	observed, err := noaa.GetWaterLevels(&q)
	metrics.CountStationFetch(err)
	if err != nil {
		return nil, fmt.Errorf("fetching station %d: %w", station, err)
	}

	cat := harmonic.StandardCatalogue().ForSpan(observed.End().Sub(observed.Start()))
	fitStart := time.Now()
	model, err := harmonic.Fit(observed, cat, harmonic.FitOptions{})
	metrics.ObserveFit(time.Since(fitStart))
	if err != nil {
		return nil, fmt.Errorf("fitting station %d: %w", station, err)
	}

	grid, err := series.Grid(observed.Start(), now.Add(forecastLength), 6*time.Minute)
	if err != nil {
		return nil, err
	}
	dense, err := model.Predict(grid)
	if err != nil {
		return nil, err
	}
	events, err := extrema.Find(dense)
	if err != nil {
		return nil, err
	}

	return &pipeline{
		station:  station,
		unit:     unit,
		observed: observed,
		model:    model,
		dense:    dense,
		events:   events,
	}, nil
}

// prefHandler is a handler whose output depends on the client's resolved
// station and unit.
type prefHandler func(w http.ResponseWriter, r *http.Request, station noaa.Station, unit series.Unit)

// cached wraps a handler whose output depends only on its path and the
// client's resolved station/unit, serving recent responses from memory.
// Preferences resolve before the cache lookup and are part of the key, so
// two clients with different session-stored stations never share an entry.
func (s *server) cached(contentType string, next prefHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		station, unit := preferences(w, r)
		key := fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, station, unit)

		w.Header().Add("Content-Type", contentType)
		if body, ok := s.cache.Get(key); ok {
			w.WriteHeader(http.StatusOK)
			w.Write(body)
			return
		}

		var buf bytes.Buffer
		rec := &recorder{ResponseWriter: w, body: &buf}
		next(rec, r, station, unit)
		if rec.code == 0 || rec.code == http.StatusOK {
			s.cache.Set(key, buf.Bytes())
		}
	})
}

// recorder tees the response body so successful output can be cached.
type recorder struct {
	http.ResponseWriter
	body *bytes.Buffer
	code int
}

func (r *recorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}

func (s *server) serveTides(w http.ResponseWriter, r *http.Request, station noaa.Station, unit series.Unit) {
	p, err := s.runOrError(w, station, unit)
	if err != nil {
		return
	}

	// Hourly resample of the reconstruction for persistence-minded
	// clients.
	grid, err := series.Grid(p.dense.Start(), p.dense.End(), time.Hour)
	if err != nil {
		serveError(w, err)
		return
	}
	hourly, err := p.model.Predict(grid)
	if err != nil {
		serveError(w, err)
		return
	}

	if err := export.SeriesCSV(w, hourly); err != nil {
		log.Printf("writing tides: %v", err)
	}
}

func (s *server) serveExtremes(w http.ResponseWriter, r *http.Request, station noaa.Station, unit series.Unit) {
	p, err := s.runOrError(w, station, unit)
	if err != nil {
		return
	}
	if err := export.EventsCSV(w, p.events); err != nil {
		log.Printf("writing extremes: %v", err)
	}
}

// serveValidate reports how well the harmonic reconstruction matches the
// station's own observed record.
func (s *server) serveValidate(w http.ResponseWriter, r *http.Request) {
	p, err := s.runFromRequest(w, r)
	if err != nil {
		return
	}

	predicted, err := p.model.Predict(p.observed.Times())
	if err != nil {
		serveError(w, err)
		return
	}
	records, err := residual.Join(p.observed, predicted)
	if err != nil {
		serveError(w, err)
		return
	}
	s.writeValidation(w, p, records)
}

// serveValidateUpload validates a digitized observation series posted as
// CSV against the station's reconstruction.
func (s *server) serveValidateUpload(w http.ResponseWriter, r *http.Request) {
	p, err := s.runFromRequest(w, r)
	if err != nil {
		return
	}

	digitized, err := ingest.Read(r.Body, p.unit)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "bad upload: %v\n", err)
		return
	}

	reconstructed, err := align.ToDense(digitized, p.dense)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "alignment failed: %v\n", err)
		return
	}
	records, err := residual.Join(digitized, reconstructed)
	if err != nil {
		serveError(w, err)
		return
	}
	s.writeValidation(w, p, records)
}

func (s *server) writeValidation(w http.ResponseWriter, p *pipeline, records []residual.Record) {
	summary, err := residual.Summarize(records, residual.DefaultTopN)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprintf(w, "no comparable records: %v\n", err)
		return
	}

	w.Header().Add("Content-Type", "text/plain")
	if err := export.ResidualReport(w, summary, p.unit); err != nil {
		log.Printf("writing validation: %v", err)
		return
	}
	fmt.Fprintln(w)
	if err := export.WeeklyReport(w, residual.ByWeek(records, residual.DefaultTopN)); err != nil {
		log.Printf("writing weekly validation: %v", err)
		return
	}

	s.saveRun(p, summary)
}

func (s *server) serveMarigram(w http.ResponseWriter, r *http.Request, station noaa.Station, unit series.Unit) {
	p, err := s.runOrError(w, station, unit)
	if err != nil {
		return
	}

	place, ok := sunset.PlaceForStation(p.station)
	if !ok {
		serveError(w, fmt.Errorf("no coordinates for station %d", p.station))
		return
	}
	date := time.Now().Add(-day)
	suns := sunset.GetSunEvents(date, 2*day, place)

	img := visualize.NewMarigram(p.dense, p.events, suns)
	img.SetObserved(p.observed)
	img.SetDate(date)

	// Mark the worst self-validation residuals, if any are computable.
	if predicted, err := p.model.Predict(p.observed.Times()); err == nil {
		if records, err := residual.Join(p.observed, predicted); err == nil {
			if summary, err := residual.Summarize(records, residual.DefaultTopN); err == nil {
				img.SetOutliers(summary.Top)
			}
		}
	}

	if _, err := img.Encode(w); err != nil {
		log.Printf("encoding marigram: %v", err)
	}
}

// runFromRequest resolves station/units preferences and executes the
// pipeline, writing the error response itself on failure.
func (s *server) runFromRequest(w http.ResponseWriter, r *http.Request) (*pipeline, error) {
	station, unit := preferences(w, r)
	return s.runOrError(w, station, unit)
}

// runOrError executes the pipeline for already-resolved preferences,
// writing the error response itself on failure.
func (s *server) runOrError(w http.ResponseWriter, station noaa.Station, unit series.Unit) (*pipeline, error) {
	p, err := s.run(station, unit, time.Now())
	if err != nil {
		log.Printf("pipeline failed: %+v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "pipeline failed: %+v\n", err)
		return nil, err
	}
	return p, nil
}

func serveError(w http.ResponseWriter, err error) {
	log.Printf("internal error: %+v", err)
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "%+v\n", err)
}
