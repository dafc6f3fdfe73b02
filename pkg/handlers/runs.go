package handlers

import (
	"log"

	"github.com/rbenavides/marigram/pkg/data"
	"github.com/rbenavides/marigram/pkg/residual"
)

// saveRun records the validation outcome when a database is configured.
// Persistence failures are logged, never surfaced to the client.
func (s *server) saveRun(p *pipeline, summary residual.Summary) {
	if s.db == nil {
		return
	}
	mean, max := summary.Mean, summary.Max
	run := data.Run{
		Station:      int(p.station),
		Start:        p.observed.Start(),
		End:          p.observed.End(),
		RecordCount:  summary.Count,
		MeanResidual: &mean,
		MaxResidual:  &max,
	}
	if err := data.SaveRun(s.db, &run); err != nil {
		log.Printf("saving run for station %d: %v", p.station, err)
	}
}
