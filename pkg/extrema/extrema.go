// Package extrema scans a dense predicted tide curve for high and low water
// events. The detector guarantees the output alternates high/low even when
// noise or plateaus produce runs of same-kind candidates.
package extrema

import (
	"fmt"
	"time"

	"github.com/rbenavides/marigram/pkg/series"
)

// Kind labels an event as a high or low tide.
type Kind uint

const (
	High Kind = iota
	Low
)

func (k Kind) String() string {
	switch k {
	case High:
		return "H"
	case Low:
		return "L"
	default:
		return "invalid"
	}
}

// Event is one detected high or low water point on the predicted curve.
type Event struct {
	Time   time.Time
	Height series.Height
	Kind   Kind
}

func (e Event) String() string {
	return fmt.Sprintf("{t: %s, v: %f, kind: %s}",
		e.Time.Format(time.RFC822), float64(e.Height), e.Kind)
}

// Find returns the ordered high/low events of a dense predicted series.
//
// An interior sample is a candidate high when it is >= both neighbors and
// strictly above at least one of them; lows are symmetric. The first and
// last samples are never reported, as they lack neighbor context. Runs of
// consecutive same-kind candidates collapse to the single most extreme
// point of the run, so kinds strictly alternate in the result.
//
// Fewer than three samples yield no events. A missing height anywhere in the
// input is an error; a dense reconstruction has no business containing NA.
func Find(pred series.Series) ([]Event, error) {
	n := pred.Len()
	for i := 0; i < n; i++ {
		if pred.At(i).Height.Missing() {
			return nil, fmt.Errorf("extrema: missing height at %v", pred.At(i).Time)
		}
	}

	var events []Event
	push := func(e Event) {
		if len(events) > 0 && events[len(events)-1].Kind == e.Kind {
			// Same-kind run: keep only the most extreme point.
			last := &events[len(events)-1]
			if e.Kind == High && e.Height > last.Height {
				*last = e
			}
			if e.Kind == Low && e.Height < last.Height {
				*last = e
			}
			return
		}
		events = append(events, e)
	}

	for i := 1; i < n-1; i++ {
		prev := pred.At(i - 1).Height
		cur := pred.At(i).Height
		next := pred.At(i + 1).Height

		switch {
		case cur >= prev && cur >= next && (cur > prev || cur > next):
			push(Event{Time: pred.At(i).Time, Height: cur, Kind: High})
		case cur <= prev && cur <= next && (cur < prev || cur < next):
			push(Event{Time: pred.At(i).Time, Height: cur, Kind: Low})
		}
	}
	return events, nil
}
