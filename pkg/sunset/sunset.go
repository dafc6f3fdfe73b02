// Package sunset computes sunrise/sunset windows for a tide station. The
// validator uses them to band visualizations and to flag residual outliers
// that fall outside daylight, when paper marigrams are hardest to digitize.
package sunset

import (
	"math"
	"time"

	"github.com/rbenavides/marigram/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// Make sure we start with the correct day.
	// The sunrise package is not very clean with its dates.
	for !timetricks.SameDay(start, s.Sunrise()) {
		s.AddDays(1)
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise(), Sunrise}
		ret[i+1] = SunEvent{s.Sunset(), Sunset}
		s.AddDays(1)
	}
	return ret
}

// Daylight reports whether t falls between a sunrise and the following
// sunset in the event list.
func Daylight(t time.Time, events SunEvents) bool {
	for i := 0; i+1 < len(events); i += 2 {
		if !t.Before(events[i].Time) && !t.After(events[i+1].Time) {
			return true
		}
	}
	return false
}
