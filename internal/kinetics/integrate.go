// Package kinetics implements the nitrogen aggregation rate law: the
// irreversible, Arrhenius-activated conversion of A-centres to B-centres,
// second order in the residual A-centre concentration.
package kinetics

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/geochron-tools/snac-cli/internal/thermal"
)

// Rate-law calibration, sourced from the published A->B annealing study.
const (
	// EaOverR is the activation energy divided by the gas constant (K).
	EaOverR = 81160
	// PreExp is the Arrhenius attempt frequency (1 / (ppm * s)).
	PreExp = 293608
)

// SecondsPerMyr converts model time to the seconds the rate law expects.
const SecondsPerMyr = 1e6 * 365.25 * 24 * 60 * 60

// ErrNumericalInstability reports a NaN or negative concentration during
// integration. It indicates dt is too large relative to the rate constant;
// the caller must shrink dt rather than expect a silent correction.
var ErrNumericalInstability = eris.New("kinetics: numerical instability")

// RateConstant evaluates the Arrhenius rate constant at an absolute
// temperature. At mantle-irrelevant temperatures the exponential
// underflows to zero and aggregation is frozen.
func RateConstant(kelvin float64) float64 {
	if kelvin <= 0 {
		return 0
	}
	return PreExp * math.Exp(-EaOverR/kelvin)
}

// Point is the aggregation state at one path sample.
type Point struct {
	Elapsed   float64 `json:"elapsed"`    // Myr since path start
	Fraction  float64 `json:"fraction"`   // proportion of nitrogen in B-centres
	ResidualA float64 `json:"residual_a"` // remaining A-centre concentration (ppm)
}

// History is the aggregation-state history aligned one-to-one with the
// temperature path it was integrated over.
type History struct {
	Points        []Point
	TotalNitrogen float64 // ppm, conserved across the run
}

// Final returns the aggregation fraction at the end of the path, or 0 for
// an empty history.
func (h History) Final() float64 {
	if len(h.Points) == 0 {
		return 0
	}
	return h.Points[len(h.Points)-1].Fraction
}

// FractionAt returns the aggregation fraction at the sample nearest to the
// given elapsed time.
func (h History) FractionAt(elapsed float64) float64 {
	if len(h.Points) == 0 {
		return 0
	}
	best := 0
	bestDist := math.Abs(h.Points[0].Elapsed - elapsed)
	for i, pt := range h.Points {
		if d := math.Abs(pt.Elapsed - elapsed); d < bestDist {
			best, bestDist = i, d
		}
	}
	return h.Points[best].Fraction
}

// Integrate steps the aggregation rate law along the temperature path,
// starting from initialFraction of the nitrogen already in B-centres.
//
// The per-step update A1 = A0 / (1 + k*A0*dt) is the exact solution of the
// second-order law over a step of constant temperature. It keeps A
// non-negative and the fraction monotone for any positive dt, unlike
// forward Euler which blows up when dt*k*A approaches 1 in the hot, stiff
// part of the path. dt should still be small against 1/(k(Tmax)*NT) for
// accuracy.
func Integrate(path thermal.Path, totalNitrogen, initialFraction float64) (History, error) {
	if totalNitrogen < 0 {
		return History{}, eris.Errorf("kinetics: negative total nitrogen %g", totalNitrogen)
	}
	if initialFraction < 0 || initialFraction > 1 {
		return History{}, eris.Errorf("kinetics: initial fraction %g outside [0, 1]", initialFraction)
	}

	h := History{TotalNitrogen: totalNitrogen}
	if len(path.Samples) == 0 {
		return h, nil
	}

	// Zero nitrogen: the fraction is undefined, pin it at zero.
	if totalNitrogen == 0 {
		for _, s := range path.Samples {
			h.Points = append(h.Points, Point{Elapsed: s.Elapsed})
		}
		return h, nil
	}

	a := totalNitrogen * (1 - initialFraction)
	h.Points = append(h.Points, Point{
		Elapsed:   path.Samples[0].Elapsed,
		Fraction:  initialFraction,
		ResidualA: a,
	})

	for i := 1; i < len(path.Samples); i++ {
		prev := path.Samples[i-1]
		cur := path.Samples[i]

		dt := (cur.Elapsed - prev.Elapsed) * SecondsPerMyr
		k := RateConstant(prev.Kelvin)

		a = a / (1 + k*a*dt)
		if math.IsNaN(a) || a < 0 {
			return History{}, eris.Wrapf(ErrNumericalInstability,
				"residual A %g at elapsed %g Myr (k=%g, dt=%g Myr)", a, cur.Elapsed, k, path.Dt)
		}

		frac := 1 - a/totalNitrogen
		h.Points = append(h.Points, Point{Elapsed: cur.Elapsed, Fraction: frac, ResidualA: a})
	}

	return h, nil
}
