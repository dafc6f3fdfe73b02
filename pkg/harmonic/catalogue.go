package harmonic

import (
	"fmt"
	"time"
)

// Constituent is one astronomical tidal frequency: a fixed name and angular
// speed in degrees per solar hour. Speeds are reference data, never fitted.
type Constituent struct {
	Name  string
	Speed float64
}

// Period is the constituent's full cycle duration.
func (c Constituent) Period() time.Duration {
	return time.Duration(360 / c.Speed * float64(time.Hour))
}

// Catalogue is an ordered, fixed list of constituents. It is configuration
// passed by value; the fitter treats it as the set of design frequencies.
type Catalogue []Constituent

// Validate checks the catalogue once at load: nonempty names, positive
// speeds, no repeated frequencies.
func (cat Catalogue) Validate() error {
	if len(cat) == 0 {
		return fmt.Errorf("harmonic: catalogue is empty")
	}
	seenName := make(map[string]bool, len(cat))
	seenSpeed := make(map[float64]bool, len(cat))
	for _, c := range cat {
		if c.Name == "" {
			return fmt.Errorf("harmonic: catalogue constituent with empty name")
		}
		if c.Speed <= 0 {
			return fmt.Errorf("harmonic: constituent %s has speed %v", c.Name, c.Speed)
		}
		if seenName[c.Name] {
			return fmt.Errorf("harmonic: constituent %s repeated", c.Name)
		}
		if seenSpeed[c.Speed] {
			return fmt.Errorf("harmonic: constituent %s repeats speed %v", c.Name, c.Speed)
		}
		seenName[c.Name] = true
		seenSpeed[c.Speed] = true
	}
	return nil
}

// Slowest returns the lowest-speed (longest-period) constituent. The
// catalogue must be non-empty.
func (cat Catalogue) Slowest() Constituent {
	slow := cat[0]
	for _, c := range cat[1:] {
		if c.Speed < slow.Speed {
			slow = c
		}
	}
	return slow
}

// ForSpan filters the catalogue to constituents whose full period fits within
// the given record length. Fitting a year-period constituent to a month of
// data is not resolvable; callers trim the catalogue to their record first.
func (cat Catalogue) ForSpan(span time.Duration) Catalogue {
	var out Catalogue
	for _, c := range cat {
		if c.Period() <= span {
			out = append(out, c)
		}
	}
	return out
}

// StandardCatalogue returns the 37 constituents NOAA publishes for harmonic
// tide prediction, with speeds in degrees per solar hour.
func StandardCatalogue() Catalogue {
	return Catalogue{
		{"M2", 28.984104},
		{"S2", 30.0},
		{"N2", 28.43973},
		{"K1", 15.041069},
		{"M4", 57.96821},
		{"O1", 13.943035},
		{"M6", 86.95232},
		{"MK3", 44.025173},
		{"S4", 60.0},
		{"MN4", 57.423832},
		{"NU2", 28.512583},
		{"S6", 90.0},
		{"MU2", 27.968208},
		{"2N2", 27.895355},
		{"OO1", 16.139101},
		{"LAM2", 29.455625},
		{"S1", 15.0},
		{"M1", 14.496694},
		{"J1", 15.5854433},
		{"MM", 0.5443747},
		{"SSA", 0.0821373},
		{"SA", 0.0410686},
		{"MSF", 1.0158958},
		{"MF", 1.0980331},
		{"RHO", 13.471515},
		{"Q1", 13.398661},
		{"T2", 29.958933},
		{"R2", 30.041067},
		{"2Q1", 12.854286},
		{"P1", 14.958931},
		{"2SM2", 31.015896},
		{"M3", 43.47616},
		{"L2", 29.528479},
		{"2MK3", 42.92714},
		{"K2", 30.082138},
		{"M8", 115.93642},
		{"MS4", 58.984104},
	}
}
