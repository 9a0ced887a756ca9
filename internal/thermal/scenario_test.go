package thermal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		params  []float64
		want    Scenario
		wantErr bool
	}{
		{name: "continuous", tag: "continuous", want: Continuous{}},
		{name: "empty tag defaults to continuous", tag: "", want: Continuous{}},
		{name: "continuous rejects params", tag: "continuous", params: []float64{1}, wantErr: true},
		{name: "hot_pulse", tag: "hot_pulse", params: []float64{150, 25, 50}, want: HotPulse{Magnitude: 150, Onset: 25, Duration: 50}},
		{name: "hot_pulse wrong arity", tag: "hot_pulse", params: []float64{150}, wantErr: true},
		{name: "hot_pulse zero duration", tag: "hot_pulse", params: []float64{150, 25, 0}, wantErr: true},
		{name: "hot_spike", tag: "hot_spike", params: []float64{1000, 25, 50}, want: HotSpike{Magnitude: 1000, Onset: 25, Duration: 50}},
		{name: "hot_spike negative onset", tag: "hot_spike", params: []float64{1000, -1, 50}, wantErr: true},
		{name: "rapid_ascent", tag: "rapid_ascent", params: []float64{100, 500}, want: RapidAscent{Drop: 100, Onset: 500}},
		{name: "rapid_ascent wrong arity", tag: "rapid_ascent", params: []float64{100, 500, 1}, wantErr: true},
		{name: "slow_ascent", tag: "slow_ascent", params: []float64{0.5, 100, 200}, want: SlowAscent{AscentRate: 0.5, Onset: 100, Duration: 200}},
		{name: "unknown tag", tag: "plateau_forever", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScenario(tt.tag, tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidScenario)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHotPulse_WindowAndContinuity(t *testing.T) {
	p := Params{TStart: 1200, Rate: 0.1}
	sc := HotPulse{Magnitude: 150, Onset: 100, Duration: 50}

	// Outside the window the pulse follows the baseline exactly.
	assert.InDelta(t, Continuous{}.Temperature(p, 50), sc.Temperature(p, 50), 1e-12)
	assert.InDelta(t, Continuous{}.Temperature(p, 200), sc.Temperature(p, 200), 1e-12)

	// Flat top at baseline(onset) + magnitude throughout the window.
	top := Continuous{}.Temperature(p, 100) + 150
	assert.InDelta(t, top, sc.Temperature(p, 100), 1e-12)
	assert.InDelta(t, top, sc.Temperature(p, 125), 1e-12)
	assert.InDelta(t, top, sc.Temperature(p, 150), 1e-12)
}

func TestHotSpike_RelaxesOntoBaseline(t *testing.T) {
	p := Params{TStart: 1200, Rate: 0.1}
	sc := HotSpike{Magnitude: 1000, Onset: 25, Duration: 50}

	peak := Continuous{}.Temperature(p, 25) + 1000
	rejoin := Continuous{}.Temperature(p, 75)

	assert.InDelta(t, peak, sc.Temperature(p, 25), 1e-12)
	assert.InDelta(t, rejoin, sc.Temperature(p, 75), 1e-12)

	// Midpoint of the spike lies halfway along the linear relaxation.
	assert.InDelta(t, (peak+rejoin)/2, sc.Temperature(p, 50), 1e-12)
}

func TestHotSpike_NoDiscontinuityOutsideWindow(t *testing.T) {
	p := Params{TStart: 1200, Rate: 0.1}
	sc := HotSpike{Magnitude: 1000, Onset: 25, Duration: 50}

	path, err := GeneratePath(p, sc, 3520, 0, 1)
	require.NoError(t, err)

	// Outside the declared window, consecutive samples never differ by
	// more than one baseline dt-step of cooling.
	baselineStep := 0.1 * 1 // rate * dt
	for i := 1; i < len(path.Samples); i++ {
		elapsed := path.Samples[i].Elapsed
		if elapsed > 24 && elapsed <= 76 {
			continue
		}
		diff := math.Abs(path.Samples[i].Kelvin - path.Samples[i-1].Kelvin)
		assert.LessOrEqual(t, diff, baselineStep+1e-9, "discontinuity at elapsed %g", elapsed)
	}
}

func TestRapidAscent_StepThenBaselineRate(t *testing.T) {
	p := Params{TStart: 1200, Rate: 0.1}
	sc := RapidAscent{Drop: 100, Onset: 500}

	before := Continuous{}.Temperature(p, 499)
	assert.InDelta(t, before, sc.Temperature(p, 499), 1e-12)

	// At onset the temperature drops by exactly Drop.
	atOnset := Continuous{}.Temperature(p, 500) - 100
	assert.InDelta(t, atOnset, sc.Temperature(p, 500), 1e-12)

	// Afterwards cooling continues at the baseline rate from the lowered T.
	assert.InDelta(t, atOnset-0.1*100, sc.Temperature(p, 600), 1e-12)
}

func TestSlowAscent_RejoinsAtBaselineRate(t *testing.T) {
	p := Params{TStart: 1200, Rate: 0.1}
	sc := SlowAscent{AscentRate: 0.5, Onset: 100, Duration: 200}

	// During the ascent, cooling accelerates to AscentRate.
	before := Continuous{}.Temperature(p, 100)
	assert.InDelta(t, before-0.5*50, sc.Temperature(p, 150), 1e-12)

	// After the ascent window, slope returns to the baseline rate.
	endAscent := sc.Temperature(p, 300)
	assert.InDelta(t, endAscent-0.1*100, sc.Temperature(p, 400), 1e-12)

	// Continuity at both window edges.
	assert.InDelta(t, sc.Temperature(p, 100-1e-9), sc.Temperature(p, 100), 1e-6)
	assert.InDelta(t, sc.Temperature(p, 300), sc.Temperature(p, 300+1e-9), 1e-6)
}
