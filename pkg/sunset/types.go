package sunset

import (
	"fmt"
	"time"

	"github.com/rbenavides/marigram/pkg/noaa"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

var places = map[noaa.Station]Place{
	noaa.SantaCruz: {36.9741, -122.0308, locationOrPanic("America/Los_Angeles")},
	noaa.Monterey:  {36.6050, -121.8880, locationOrPanic("America/Los_Angeles")},
	noaa.LaJolla:   {32.8669, -117.2571, locationOrPanic("America/Los_Angeles")},
	noaa.FortPoint: {37.8063, -122.4659, locationOrPanic("America/Los_Angeles")},
}

// PlaceForStation maps a tide station to its coordinates for daylight
// calculations.
func PlaceForStation(st noaa.Station) (Place, bool) {
	p, ok := places[st]
	return p, ok
}

// SunEvents is a time series of SunEvent.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time
	Event Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s",
		s.Time.Format(time.RFC822),
		func() string {
			if s.Event == Sunrise {
				return "Sunrise"
			} else {
				return "Sunset"
			}
		}())
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset        = false
)

func locationOrPanic(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
