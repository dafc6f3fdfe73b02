package visualize

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rbenavides/marigram/pkg/extrema"
	"github.com/rbenavides/marigram/pkg/series"
	"github.com/rbenavides/marigram/pkg/sunset"
)

func TestEncode(t *testing.T) {
	day := time.Date(2020, time.July, 6, 0, 0, 0, 0, time.UTC)

	var samples []series.Sample
	for h := 0; h < 24; h++ {
		samples = append(samples, series.Sample{
			Time:   day.Add(time.Duration(h) * time.Hour),
			Height: series.Height(float64(h%12) / 4),
		})
	}
	pred, err := series.New(series.Meters, samples)
	if err != nil {
		t.Fatal(err)
	}

	events := []extrema.Event{
		{Time: day.Add(11 * time.Hour), Height: 2.75, Kind: extrema.High},
	}
	suns := sunset.SunEvents{
		{Time: day.Add(6 * time.Hour), Event: sunset.Sunrise},
		{Time: day.Add(20 * time.Hour), Event: sunset.Sunset},
	}

	img := NewMarigram(pred, events, suns)
	img.SetDate(day)

	var buf bytes.Buffer
	if _, err := img.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "daytime", `class="tide"`, "extreme_H", "night", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestEncodeNeedsSunData(t *testing.T) {
	day := time.Date(2020, time.July, 6, 0, 0, 0, 0, time.UTC)
	pred, err := series.New(series.Meters, []series.Sample{{Time: day, Height: 1}})
	if err != nil {
		t.Fatal(err)
	}
	img := NewMarigram(pred, nil, nil)
	img.SetDate(day)
	var buf bytes.Buffer
	if _, err := img.Encode(&buf); err == nil {
		t.Error("Encode succeeded with no sun events")
	}
}
