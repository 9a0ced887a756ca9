// Package thermal generates discretized temperature-vs-time paths for
// candidate cooling histories of a diamond between core growth and
// kimberlite eruption.
package thermal

import (
	"math"

	"github.com/rotisserie/eris"
)

// kelvinOffset converts deg. C to absolute temperature. The rate-law
// calibration uses a 273 K offset, so we keep the same value here.
const kelvinOffset = 273.0

// floorCelsius is the non-negative floor applied to every generated sample.
const floorCelsius = 0.0

// CoolingLaw computes the baseline temperature (deg. C) after `elapsed` Myr
// of cooling from tStart at the given rate.
type CoolingLaw func(tStart, elapsed, rate float64) float64

// LinearCool decreases temperature by rate K per Myr.
func LinearCool(tStart, elapsed, rate float64) float64 {
	return tStart - elapsed*rate
}

// ExponentialCool decays temperature with rate constant `rate` (1/Myr).
func ExponentialCool(tStart, elapsed, rate float64) float64 {
	return tStart * math.Exp(-rate*elapsed)
}

// Params holds the trial cooling parameters shared by all scenarios.
type Params struct {
	TStart float64    // starting temperature at core growth (deg. C)
	Rate   float64    // baseline cooling rate (K/Myr)
	Cool   CoolingLaw // baseline law; nil means LinearCool
}

func (p Params) cool() CoolingLaw {
	if p.Cool == nil {
		return LinearCool
	}
	return p.Cool
}

// Sample is one point on a temperature path.
type Sample struct {
	Elapsed float64 `json:"elapsed"` // Myr since path start (core growth)
	Kelvin  float64 `json:"kelvin"`  // absolute temperature
}

// Celsius returns the sample temperature in deg. C.
func (s Sample) Celsius() float64 { return s.Kelvin - kelvinOffset }

// Path is an ordered, evenly dt-spaced temperature history.
type Path struct {
	Samples []Sample
	Dt      float64 // Myr
}

// Span returns the total modeled duration in Myr.
func (p Path) Span() float64 {
	if len(p.Samples) == 0 {
		return 0
	}
	return p.Samples[len(p.Samples)-1].Elapsed
}

// GeneratePath builds the temperature path for the given trial parameters
// and scenario, from ageStart (Ma) down to ageEnd (Ma), sampled every dt
// Myr. It is a pure function of its inputs: identical arguments produce
// identical paths.
func GeneratePath(p Params, sc Scenario, ageStart, ageEnd, dt float64) (Path, error) {
	if sc == nil {
		return Path{}, eris.Wrap(ErrInvalidScenario, "thermal: nil scenario")
	}
	if dt <= 0 {
		return Path{}, eris.Errorf("thermal: dt must be positive, got %g", dt)
	}
	if ageStart < ageEnd || ageEnd < 0 {
		return Path{}, eris.Errorf("thermal: invalid age window [%g, %g]", ageStart, ageEnd)
	}

	span := ageStart - ageEnd
	n := int(math.Floor(span/dt+1e-9)) + 1

	samples := make([]Sample, 0, n)
	for i := 0; i < n; i++ {
		elapsed := float64(i) * dt
		tc := sc.Temperature(p, elapsed)
		if tc < floorCelsius {
			tc = floorCelsius
		}
		tk := tc + kelvinOffset
		if tk <= 0 || math.IsNaN(tk) || math.IsInf(tk, 0) {
			return Path{}, eris.Errorf("thermal: non-physical temperature %g K at elapsed %g Myr", tk, elapsed)
		}
		samples = append(samples, Sample{Elapsed: elapsed, Kelvin: tk})
	}

	return Path{Samples: samples, Dt: dt}, nil
}
