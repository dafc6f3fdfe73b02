package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "marigram",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)

	fitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:      "fit_duration_seconds",
			Subsystem: "marigram",
			Help:      "Wall time of harmonic least-squares fits.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	stationFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "station_fetches_total",
			Subsystem: "marigram",
			Help:      "Water-level fetches from the station API, by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		fitDuration,
		stationFetches,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveFit records how long one harmonic fit took.
func ObserveFit(d time.Duration) {
	fitDuration.Observe(d.Seconds())
}

// CountStationFetch tallies a station API call as "ok" or "error".
func CountStationFetch(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	stationFetches.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			code := getStatusCode(w)
			ObserveRequestLatency(verb, path, code, time.Since(t).Seconds())
		}()

		next.ServeHTTP(w, r)
	})
}

func getStatusCode(w http.ResponseWriter) string {
	statusFields, ok := w.Header()["Status-Code"]
	if !ok {
		// Unset, will be set to 200 by stdlib.
		return "200"
	}
	if len(statusFields) < 1 {
		// Not normal behavior.
		return "0"
	}
	return statusFields[0]
}
