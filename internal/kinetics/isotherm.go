package kinetics

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrConvergence reports that no physically valid temperature reproduces
// the measured aggregation state in the configured search range.
var ErrConvergence = eris.New("kinetics: isothermal solution does not converge")

// Physical search range for the isothermal inverse (deg. C). Diamonds
// reside in the lithospheric mantle; anything outside this window means
// the closed form was fed inconsistent measurements.
const (
	isothermMinCelsius = 0
	isothermMaxCelsius = 2500
)

// SolveIsothermalTemperature inverts the rate law under a constant
// temperature held for durationMyr: it returns the single temperature
// (deg. C) at which totalNitrogen ppm of initially unaggregated nitrogen
// reaches measuredFraction B-centres. Used as a diagnostic and as an
// initial-guess aid, not as the primary fit mechanism.
func SolveIsothermalTemperature(measuredFraction, totalNitrogen, durationMyr float64) (float64, error) {
	if totalNitrogen <= 0 {
		return 0, eris.Wrapf(ErrConvergence, "total nitrogen %g ppm must be positive", totalNitrogen)
	}
	if durationMyr <= 0 {
		return 0, eris.Wrapf(ErrConvergence, "duration %g Myr must be positive", durationMyr)
	}
	if measuredFraction <= 0 || measuredFraction >= 1 {
		return 0, eris.Wrapf(ErrConvergence, "aggregation fraction %g must lie strictly inside (0, 1)", measuredFraction)
	}

	// Closed-form inverse of A1 = A0 / (1 + k*t*A0) with A0 = NT:
	// k = (NT/NA - 1) / (t*NT), then T from the Arrhenius law.
	t := durationMyr * SecondsPerMyr
	residualA := totalNitrogen * (1 - measuredFraction)
	arg := ((totalNitrogen / residualA) - 1) / (t * totalNitrogen * PreExp)
	if arg <= 0 || arg >= 1 {
		return 0, eris.Wrapf(ErrConvergence, "rate-law argument %g has no Arrhenius root", arg)
	}

	kelvin := -EaOverR / math.Log(arg)
	celsius := kelvin - 273.0
	if math.IsNaN(celsius) || celsius < isothermMinCelsius || celsius > isothermMaxCelsius {
		return 0, eris.Wrapf(ErrConvergence, "solution %g deg. C outside physical range [%d, %d]",
			celsius, isothermMinCelsius, isothermMaxCelsius)
	}

	return celsius, nil
}
