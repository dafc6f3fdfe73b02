// Package visualize renders a marigram: the reconstructed tide curve with
// high/low markers, digitized observations, and daylight bands, as SVG. It
// consumes pipeline output and imposes nothing back on it.
package visualize

import (
	"fmt"
	"io"
	"time"

	"github.com/rbenavides/marigram/pkg/extrema"
	"github.com/rbenavides/marigram/pkg/residual"
	"github.com/rbenavides/marigram/pkg/series"
	"github.com/rbenavides/marigram/pkg/sunset"
	"github.com/rbenavides/marigram/pkg/timetricks"
)

const (
	width  = 1200
	height = 300

	// Vertical scale: the image spans heights in [-2, +8) series units.
	loHeight   = -2.0
	spanHeight = 10.0
)

type Marigram struct {
	date      time.Time
	predicted series.Series
	events    []extrema.Event
	observed  series.Series
	outliers  []residual.Record
	sunEvents sunset.SunEvents
}

func NewMarigram(predicted series.Series, events []extrema.Event, sunEvents sunset.SunEvents) *Marigram {
	return &Marigram{
		predicted: predicted,
		events:    events,
		sunEvents: sunEvents,
	}
}

// SetObserved overlays a digitized observation series as points.
func (img *Marigram) SetObserved(obs series.Series) {
	img.observed = obs
}

// SetOutliers marks the top residual records on the curve.
func (img *Marigram) SetOutliers(outliers []residual.Record) {
	img.outliers = outliers
}

// SetDate picks the day the viewport starts at.
func (img *Marigram) SetDate(t time.Time) {
	img.date = timetricks.TrimClock(t)
}

func (img *Marigram) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Calculate dawn/dusk and draw the sunshine.
	sunupIndex, ok := img.sunup(img.date)
	if !ok || sunupIndex+1 >= len(img.sunEvents) {
		return n, fmt.Errorf("not enough sun data")
	}
	sunup := img.sunEvents[sunupIndex]
	sundown := img.sunEvents[sunupIndex+1]
	risex := img.timeToX(sunup.Time)
	setx := img.timeToX(sundown.Time)
	io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
		risex, 0,
		setx-risex, height))

	// Draw the reconstructed curve as one filled path down to the floor.
	first := true
	io(fmt.Fprintf(w, `<path class="tide" fill="skyblue" d="`))
	for i := 0; i < img.predicted.Len(); i++ {
		smp := img.predicted.At(i)
		x := img.timeToX(smp.Time)
		if x < 0 {
			continue
		}
		if x > width {
			break
		}
		if first {
			io(fmt.Fprintf(w, `M %d,%d `, x, height))
			first = false
		}
		io(fmt.Fprintf(w, `L %d,%d `, x, heightToY(smp.Height)))
	}
	io(fmt.Fprintf(w, `L %d,%d z"/>`, width, height))

	// Mark the highs and lows.
	for _, e := range img.events {
		x := img.timeToX(e.Time)
		if x < 0 || x > width {
			continue
		}
		io(fmt.Fprintf(w, `<circle class="extreme_%s" fill="navy" cx="%d" cy="%d" r="4"/>`,
			e.Kind, x, heightToY(e.Height)))
		io(fmt.Fprintf(w, `<text x="%d" y="%d" font-size="12">%s</text>`,
			x+6, heightToY(e.Height), e.Kind))
	}

	// Digitized observations as dots, missing values skipped.
	for i := 0; i < img.observed.Len(); i++ {
		smp := img.observed.At(i)
		if smp.Height.Missing() {
			continue
		}
		x := img.timeToX(smp.Time)
		if x < 0 || x > width {
			continue
		}
		io(fmt.Fprintf(w, `<circle class="observed" fill="darkorange" cx="%d" cy="%d" r="2"/>`,
			x, heightToY(smp.Height)))
	}

	// Residual outliers get a ring so they stand out from honest points.
	for _, r := range img.outliers {
		x := img.timeToX(r.Time)
		if x < 0 || x > width {
			continue
		}
		io(fmt.Fprintf(w, `<circle class="outlier" fill="none" stroke="crimson" stroke-width="2" cx="%d" cy="%d" r="6"/>`,
			x, heightToY(r.Observed)))
	}

	// Draw the night time shadows.
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		0, 0,
		risex, height))
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		setx, 0,
		width-setx, height))

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

func (img *Marigram) sunup(t time.Time) (int, bool) {
	for i := 0; i < len(img.sunEvents); i++ {
		if img.sunEvents[i].Time.After(t) {
			return i, true
		}
	}
	return 0, false
}

func heightToY(h series.Height) int {
	return height - int((float64(h)-loHeight)*(height/spanHeight))
}

func (img *Marigram) timeToX(t time.Time) int {
	return int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
}
