package thermal

import (
	"github.com/rotisserie/eris"
)

// ErrInvalidScenario reports an unrecognized scenario tag or malformed
// scenario parameters.
var ErrInvalidScenario = eris.New("thermal: invalid scenario")

// Scenario is a perturbation rule applied to the baseline cooling
// trajectory. Implementations form a closed set; every variant evaluates
// the temperature (deg. C) at a given elapsed time (Myr) under the trial
// parameters.
type Scenario interface {
	// Tag returns the external string identifier for the scenario.
	Tag() string
	// Temperature evaluates the scenario temperature rule at elapsed Myr.
	Temperature(p Params, elapsed float64) float64
}

// ScenarioTags lists the recognized scenario identifiers.
var ScenarioTags = []string{"continuous", "hot_pulse", "hot_spike", "rapid_ascent", "slow_ascent"}

// Continuous is uninterrupted baseline cooling.
type Continuous struct{}

func (Continuous) Tag() string { return "continuous" }

func (Continuous) Temperature(p Params, elapsed float64) float64 {
	return p.cool()(p.TStart, elapsed, p.Rate)
}

// HotPulse holds the temperature at baseline+Magnitude for the window
// [Onset, Onset+Duration], then rejoins the baseline trajectory.
type HotPulse struct {
	Magnitude float64 // relative temperature increase (K)
	Onset     float64 // Myr after path start
	Duration  float64 // Myr
}

func (HotPulse) Tag() string { return "hot_pulse" }

func (h HotPulse) Temperature(p Params, elapsed float64) float64 {
	cool := p.cool()
	if elapsed < h.Onset || elapsed > h.Onset+h.Duration {
		return cool(p.TStart, elapsed, p.Rate)
	}
	// Flat top at the pulse-onset baseline temperature plus the offset.
	return cool(p.TStart, h.Onset, p.Rate) + h.Magnitude
}

// HotSpike jumps to baseline+Magnitude at Onset and relaxes linearly back
// onto the baseline trajectory over Duration.
type HotSpike struct {
	Magnitude float64 // relative temperature increase (K)
	Onset     float64 // Myr after path start
	Duration  float64 // Myr
}

func (HotSpike) Tag() string { return "hot_spike" }

func (h HotSpike) Temperature(p Params, elapsed float64) float64 {
	cool := p.cool()
	if elapsed < h.Onset || elapsed > h.Onset+h.Duration {
		return cool(p.TStart, elapsed, p.Rate)
	}
	peak := cool(p.TStart, h.Onset, p.Rate) + h.Magnitude
	rejoin := cool(p.TStart, h.Onset+h.Duration, p.Rate)
	return peak + (rejoin-peak)*((elapsed-h.Onset)/h.Duration)
}

// RapidAscent models an instantaneous ascent to shallower depth: the
// temperature drops by Drop at Onset and cooling resumes at the baseline
// rate from the lowered temperature. This is the one scenario with an
// explicit modeled step.
type RapidAscent struct {
	Drop  float64 // relative temperature decrease (K)
	Onset float64 // Myr after path start
}

func (RapidAscent) Tag() string { return "rapid_ascent" }

func (r RapidAscent) Temperature(p Params, elapsed float64) float64 {
	cool := p.cool()
	if elapsed < r.Onset {
		return cool(p.TStart, elapsed, p.Rate)
	}
	after := cool(p.TStart, r.Onset, p.Rate) - r.Drop
	return cool(after, elapsed-r.Onset, p.Rate)
}

// SlowAscent switches to an alternate cooling rate for the window
// [Onset, Onset+Duration], then returns to the baseline rate from wherever
// the ascent left the temperature.
type SlowAscent struct {
	AscentRate float64 // cooling rate during the ascent (K/Myr)
	Onset      float64 // Myr after path start
	Duration   float64 // Myr
}

func (SlowAscent) Tag() string { return "slow_ascent" }

func (s SlowAscent) Temperature(p Params, elapsed float64) float64 {
	cool := p.cool()
	if elapsed < s.Onset {
		return cool(p.TStart, elapsed, p.Rate)
	}
	before := cool(p.TStart, s.Onset, p.Rate)
	if elapsed <= s.Onset+s.Duration {
		return cool(before, elapsed-s.Onset, s.AscentRate)
	}
	after := cool(before, s.Duration, s.AscentRate)
	return cool(after, elapsed-(s.Onset+s.Duration), p.Rate)
}

// ParseScenario maps an external scenario tag and its numeric parameter
// tuple to a concrete Scenario. It fails with ErrInvalidScenario on an
// unknown tag, wrong parameter arity, or out-of-range values.
func ParseScenario(tag string, params []float64) (Scenario, error) {
	switch tag {
	case "continuous", "":
		if len(params) != 0 {
			return nil, eris.Wrapf(ErrInvalidScenario, "continuous takes no parameters, got %d", len(params))
		}
		return Continuous{}, nil

	case "hot_pulse":
		if len(params) != 3 {
			return nil, eris.Wrapf(ErrInvalidScenario, "hot_pulse needs (magnitude, onset, duration), got %d values", len(params))
		}
		sc := HotPulse{Magnitude: params[0], Onset: params[1], Duration: params[2]}
		if sc.Onset < 0 || sc.Duration <= 0 {
			return nil, eris.Wrapf(ErrInvalidScenario, "hot_pulse window (onset %g, duration %g) out of range", sc.Onset, sc.Duration)
		}
		return sc, nil

	case "hot_spike":
		if len(params) != 3 {
			return nil, eris.Wrapf(ErrInvalidScenario, "hot_spike needs (magnitude, onset, duration), got %d values", len(params))
		}
		sc := HotSpike{Magnitude: params[0], Onset: params[1], Duration: params[2]}
		if sc.Onset < 0 || sc.Duration <= 0 {
			return nil, eris.Wrapf(ErrInvalidScenario, "hot_spike window (onset %g, duration %g) out of range", sc.Onset, sc.Duration)
		}
		return sc, nil

	case "rapid_ascent":
		if len(params) != 2 {
			return nil, eris.Wrapf(ErrInvalidScenario, "rapid_ascent needs (drop, onset), got %d values", len(params))
		}
		sc := RapidAscent{Drop: params[0], Onset: params[1]}
		if sc.Onset < 0 {
			return nil, eris.Wrapf(ErrInvalidScenario, "rapid_ascent onset %g out of range", sc.Onset)
		}
		return sc, nil

	case "slow_ascent":
		if len(params) != 3 {
			return nil, eris.Wrapf(ErrInvalidScenario, "slow_ascent needs (rate, onset, duration), got %d values", len(params))
		}
		sc := SlowAscent{AscentRate: params[0], Onset: params[1], Duration: params[2]}
		if sc.Onset < 0 || sc.Duration <= 0 {
			return nil, eris.Wrapf(ErrInvalidScenario, "slow_ascent window (onset %g, duration %g) out of range", sc.Onset, sc.Duration)
		}
		return sc, nil

	default:
		return nil, eris.Wrapf(ErrInvalidScenario, "unrecognized scenario %q", tag)
	}
}
