// Package ingest reads digitized water-level observations from delimited
// text. The format is an explicit schema contract: a "time,height" header,
// RFC 3339 UTC timestamps, and a literal NA for missing heights. Anything
// else is rejected at the boundary so the core never sees malformed data.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rbenavides/marigram/pkg/series"
)

const naMarker = "NA"

// Read parses a digitized observation file into a Series with the declared
// unit. Rows must already be deduplicated and in time order; a violation is
// an error here, not something the core repairs later.
func Read(r io.Reader, unit series.Unit) (series.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	header, err := cr.Read()
	if err == io.EOF {
		return series.Series{}, &series.EmptySeriesError{Op: "ingest.Read"}
	}
	if err != nil {
		return series.Series{}, fmt.Errorf("ingest: reading header: %w", err)
	}
	if !strings.EqualFold(header[0], "time") || !strings.EqualFold(header[1], "height") {
		return series.Series{}, fmt.Errorf("ingest: header is %q,%q, want \"time\",\"height\"", header[0], header[1])
	}

	var samples []series.Sample
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return series.Series{}, fmt.Errorf("ingest: line %d: %w", line, err)
		}

		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return series.Series{}, fmt.Errorf("ingest: line %d: time %q: %w", line, row[0], err)
		}

		h := series.NA
		if v := strings.TrimSpace(row[1]); v != naMarker && v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return series.Series{}, fmt.Errorf("ingest: line %d: height %q: %w", line, v, err)
			}
			h = series.Height(parsed)
		}
		samples = append(samples, series.Sample{Time: ts.UTC(), Height: h})
	}

	s, err := series.New(unit, samples)
	if err != nil {
		return series.Series{}, fmt.Errorf("ingest: %w", err)
	}
	if s.Len() == 0 {
		return series.Series{}, &series.EmptySeriesError{Op: "ingest.Read"}
	}
	return s, nil
}
