package fit

import (
	"fmt"

	"github.com/geochron-tools/snac-cli/internal/kinetics"
	"github.com/geochron-tools/snac-cli/internal/thermal"
)

// Result is one complete forward-model evaluation: the trial (or fitted)
// parameters, the residual against the measured fractions, and the full
// temperature and aggregation histories. Results are immutable once
// returned.
type Result struct {
	TStart      float64 // deg. C
	CoolingRate float64 // K/Myr
	Residual    float64
	Iterations  int
	Fitted      bool // true when produced by a converged Run

	Path thermal.Path
	Core kinetics.History
	Rim  kinetics.History
}

// CoreFraction is the modeled aggregation fraction of the core at eruption.
func (r *Result) CoreFraction() float64 { return r.Core.Final() }

// RimFraction is the modeled aggregation fraction of the rim at eruption.
func (r *Result) RimFraction() float64 { return r.Rim.Final() }

// ConvergenceError reports that the optimizer exhausted its budget, hit
// infeasible bounds, or produced an invalid residual. It carries the last
// trial parameters so callers can diagnose where the search stalled.
type ConvergenceError struct {
	TStart      float64
	CoolingRate float64
	Residual    float64
	Err         error
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("fit did not converge (last trial T_start=%.1f deg. C, rate=%.4f K/Myr, residual=%.4g): %v",
		e.TStart, e.CoolingRate, e.Residual, e.Err)
}

func (e *ConvergenceError) Unwrap() error { return e.Err }
