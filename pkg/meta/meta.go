// Package meta cross-examines residual outliers against daylight. Digitized
// marigram readings taken outside daylight hours are the least trustworthy,
// so a large residual at night is worth calling out separately from an
// honest model miss.
package meta

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rbenavides/marigram/pkg/residual"
	"github.com/rbenavides/marigram/pkg/sunset"
)

var notFound = errors.New("not found")

// Conditions is the set of data we can cross-examine: the ranked residual
// outliers and the sun events covering their span.
type Conditions struct {
	Outliers  []residual.Record
	SunEvents sunset.SunEvents
}

// Flag marks one suspect outlier with human-readable reasons.
type Flag struct {
	Record  residual.Record
	Reasons []string
}

func (f *Flag) String() string {
	return fmt.Sprintf("%s: %s",
		f.Record.Time.Format("01/02 15:04"),
		join(f.Reasons))
}

// Flags screens the outliers and returns the ones that fell outside
// daylight, annotated with how far from the nearest sun event they sit.
func Flags(c Conditions) []Flag {
	result := []Flag{}
	for _, r := range c.Outliers {
		suni, err := indexOfLastEventBefore(r.Time, c.SunEvents)
		if err != nil {
			// Before the first event of the window. Dark only if the
			// window opens with a sunrise still to come.
			if len(c.SunEvents) > 0 && c.SunEvents[0].Event == sunset.Sunrise {
				diff := c.SunEvents[0].Time.Sub(r.Time)
				result = append(result, Flag{
					Record: r,
					Reasons: []string{
						fmt.Sprintf("residual of %+.3f", float64(r.Residual)),
						fmt.Sprintf("%.0f minutes before sunrise", diff.Minutes()),
					},
				})
			}
			continue
		}

		if c.SunEvents[suni].Event == sunset.Sunset {
			// Last event was a sunset: the reading was digitized in the
			// dark.
			diff := r.Time.Sub(c.SunEvents[suni].Time)
			result = append(result, Flag{
				Record: r,
				Reasons: []string{
					fmt.Sprintf("residual of %+.3f", float64(r.Residual)),
					fmt.Sprintf("%.0f minutes after sunset", diff.Minutes()),
				},
			})
		}
	}
	return result
}

func join(reasons []string) string {
	out := ""
	for i, r := range reasons {
		if i > 0 {
			out += " and "
		}
		out += r
	}
	return out
}

// Returns last event before time t, or an error if there is none.
func indexOfLastEventBefore(t time.Time, events sunset.SunEvents) (int, error) {
	// Remember, sort.Search finds the FIRST element. We have to reverse the
	// index.
	n := len(events)
	revi := sort.Search(n, func(revtesti int) bool {
		testi := n - 1 - revtesti
		return events[testi].Time.Before(t)
	})
	result := n - 1 - revi
	if result < 0 || result >= n {
		// no element found
		return -1, notFound
	}
	return result, nil
}
