package kinetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geochron-tools/snac-cli/internal/thermal"
)

func constantPath(t *testing.T, celsius, spanMyr, dt float64) thermal.Path {
	t.Helper()
	path, err := thermal.GeneratePath(
		thermal.Params{TStart: celsius, Rate: 0}, thermal.Continuous{}, spanMyr, 0, dt)
	require.NoError(t, err)
	return path
}

func coolingPath(t *testing.T) thermal.Path {
	t.Helper()
	path, err := thermal.GeneratePath(
		thermal.Params{TStart: 1250, Rate: 0.05}, thermal.Continuous{}, 3520, 0, 1)
	require.NoError(t, err)
	return path
}

func TestIntegrate_MonotoneAndConserved(t *testing.T) {
	const totalN = 625.0
	h, err := Integrate(coolingPath(t), totalN, 0)
	require.NoError(t, err)
	require.Len(t, h.Points, 3521)

	for i, pt := range h.Points {
		// Fraction stays in [0, 1] and never decreases.
		assert.GreaterOrEqual(t, pt.Fraction, 0.0)
		assert.LessOrEqual(t, pt.Fraction, 1.0)
		if i > 0 {
			assert.GreaterOrEqual(t, pt.Fraction, h.Points[i-1].Fraction)
		}
		// A + B == total nitrogen at every step.
		b := totalN * pt.Fraction
		assert.InDelta(t, totalN, pt.ResidualA+b, 1e-9)
	}

	// A hot start over billions of years must aggregate substantially.
	assert.Greater(t, h.Final(), 0.5)
}

func TestIntegrate_MatchesClosedFormAtConstantTemperature(t *testing.T) {
	// At constant temperature the per-step update composes exactly to the
	// closed-form solution A(t) = NT / (1 + k*NT*t).
	const (
		totalN  = 500.0
		celsius = 1150.0
		span    = 2000.0
	)
	h, err := Integrate(constantPath(t, celsius, span, 1), totalN, 0)
	require.NoError(t, err)

	k := RateConstant(celsius + 273.0)
	tSec := span * SecondsPerMyr
	wantA := totalN / (1 + k*totalN*tSec)

	require.NotEmpty(t, h.Points)
	gotA := h.Points[len(h.Points)-1].ResidualA
	assert.InDelta(t, wantA, gotA, wantA*1e-9)
}

func TestIntegrate_ZeroNitrogen(t *testing.T) {
	h, err := Integrate(coolingPath(t), 0, 0)
	require.NoError(t, err)
	require.Len(t, h.Points, 3521)

	for _, pt := range h.Points {
		assert.Equal(t, 0.0, pt.Fraction)
	}
	assert.Equal(t, 0.0, h.Final())
}

func TestIntegrate_FrozenTemperature(t *testing.T) {
	// At 20 deg. C the Arrhenius factor underflows; nothing aggregates.
	h, err := Integrate(constantPath(t, 20, 1000, 1), 625, 0.25)
	require.NoError(t, err)

	for _, pt := range h.Points {
		assert.InDelta(t, 0.25, pt.Fraction, 1e-12)
	}
}

func TestIntegrate_ShortPaths(t *testing.T) {
	empty := thermal.Path{Dt: 1}
	h, err := Integrate(empty, 625, 0.1)
	require.NoError(t, err)
	assert.Empty(t, h.Points)
	assert.Equal(t, 0.0, h.Final())

	single := thermal.Path{Samples: []thermal.Sample{{Elapsed: 0, Kelvin: 1500}}, Dt: 1}
	h, err = Integrate(single, 625, 0.1)
	require.NoError(t, err)
	require.Len(t, h.Points, 1)
	assert.Equal(t, 0.1, h.Points[0].Fraction)
}

func TestIntegrate_InvalidInputs(t *testing.T) {
	path := constantPath(t, 1200, 10, 1)

	_, err := Integrate(path, -1, 0)
	assert.Error(t, err)

	_, err = Integrate(path, 625, -0.1)
	assert.Error(t, err)

	_, err = Integrate(path, 625, 1.5)
	assert.Error(t, err)
}

func TestHistory_FractionAt(t *testing.T) {
	h := History{
		TotalNitrogen: 100,
		Points: []Point{
			{Elapsed: 0, Fraction: 0.0},
			{Elapsed: 10, Fraction: 0.2},
			{Elapsed: 20, Fraction: 0.5},
		},
	}

	assert.Equal(t, 0.0, h.FractionAt(-5))
	assert.Equal(t, 0.2, h.FractionAt(9))
	assert.Equal(t, 0.2, h.FractionAt(12))
	assert.Equal(t, 0.5, h.FractionAt(100))

	assert.Equal(t, 0.0, History{}.FractionAt(5))
}

func TestRateConstant(t *testing.T) {
	assert.Equal(t, 0.0, RateConstant(0))
	assert.Equal(t, 0.0, RateConstant(-10))

	// Monotone in temperature.
	assert.Greater(t, RateConstant(1600), RateConstant(1400))
	assert.Greater(t, RateConstant(1400), 0.0)
}
