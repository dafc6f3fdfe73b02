package meta

import (
	"testing"
	"time"

	"github.com/rbenavides/marigram/pkg/residual"
	"github.com/rbenavides/marigram/pkg/sunset"
)

func TestFlags(t *testing.T) {
	day := time.Date(2020, time.July, 6, 0, 0, 0, 0, time.UTC)
	events := sunset.SunEvents{
		{Time: day.Add(6 * time.Hour), Event: sunset.Sunrise},
		{Time: day.Add(20 * time.Hour), Event: sunset.Sunset},
		{Time: day.Add(30 * time.Hour), Event: sunset.Sunrise},
		{Time: day.Add(44 * time.Hour), Event: sunset.Sunset},
	}

	table := []struct {
		name    string
		at      time.Time
		flagged bool
	}{
		{"midday", day.Add(12 * time.Hour), false},
		{"after sunset", day.Add(21 * time.Hour), true},
		{"before first sunrise", day.Add(5 * time.Hour), true},
		{"second midday", day.Add(36 * time.Hour), false},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			c := Conditions{
				Outliers:  []residual.Record{{Time: tc.at, Residual: 0.5}},
				SunEvents: events,
			}
			flags := Flags(c)
			if got := len(flags) == 1; got != tc.flagged {
				t.Errorf("flagged = %t, want %t (%v)", got, tc.flagged, flags)
			}
		})
	}
}

func TestFlagString(t *testing.T) {
	f := Flag{
		Record:  residual.Record{Time: time.Date(2020, time.July, 6, 22, 15, 0, 0, time.UTC), Residual: 0.5},
		Reasons: []string{"residual of +0.500", "135 minutes after sunset"},
	}
	want := "07/06 22:15: residual of +0.500 and 135 minutes after sunset"
	if got := f.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
