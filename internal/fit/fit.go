// Package fit drives the aggregation-kinetics integrator inside a bounded
// optimizer to recover the cooling history (starting temperature and
// cooling rate) that best reproduces a diamond's measured aggregation
// state at its core and rim growth zones.
package fit

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/geochron-tools/snac-cli/internal/kinetics"
	"github.com/geochron-tools/snac-cli/internal/model"
	"github.com/geochron-tools/snac-cli/internal/optimize"
	"github.com/geochron-tools/snac-cli/internal/thermal"
)

// residualScale matches the published objective: squared differences are
// scaled by 1e3 to keep the optimizer's tolerance meaningful.
const residualScale = 1e3

// State tracks where the fitter is in its lifecycle.
type State string

const (
	StateUnfit     State = "unfit"
	StateFitting   State = "fitting"
	StateFitted    State = "fitted"
	StateFitFailed State = "fit_failed"
)

// Fitter owns one diamond record and one fit configuration. A Fitter is
// single-owner: concurrent Run calls against the same instance must be
// serialized by the caller.
type Fitter struct {
	diamond  model.Diamond
	opts     model.FitOptions
	scenario thermal.Scenario
	cool     thermal.CoolingLaw

	state  State
	result *Result
}

// NewFitter validates the diamond and configuration and resolves the
// scenario tag to its concrete variant.
func NewFitter(d model.Diamond, opts model.FitOptions) (*Fitter, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if opts.Dt <= 0 {
		return nil, eris.Errorf("fit: dt must be positive, got %g", opts.Dt)
	}

	sc, err := thermal.ParseScenario(opts.Scenario, opts.ScenarioParams)
	if err != nil {
		return nil, err
	}

	var cool thermal.CoolingLaw
	switch opts.CoolingLaw {
	case "", "linear":
		cool = thermal.LinearCool
	case "exponential":
		cool = thermal.ExponentialCool
	default:
		return nil, eris.Errorf("fit: unknown cooling law %q", opts.CoolingLaw)
	}

	return &Fitter{
		diamond:  d,
		opts:     opts,
		scenario: sc,
		cool:     cool,
		state:    StateUnfit,
	}, nil
}

// State reports the fitter's lifecycle state.
func (f *Fitter) State() State { return f.state }

// Result returns the cached fit result, if Run has completed successfully.
func (f *Fitter) Result() (*Result, bool) {
	if f.state != StateFitted {
		return nil, false
	}
	return f.result, true
}

// evaluate runs the forward model for one trial parameter pair: build the
// temperature path from core growth to eruption, integrate core and rim
// aggregation, and compute the residual against the measured fractions.
// Every call builds fresh state; nothing is reused across trials.
func (f *Fitter) evaluate(tStart, rate float64) (*Result, error) {
	p := thermal.Params{TStart: tStart, Rate: rate, Cool: f.cool}

	path, err := thermal.GeneratePath(p, f.scenario, f.diamond.AgeCore, f.diamond.AgeKimberlite, f.opts.Dt)
	if err != nil {
		return nil, err
	}

	core, err := kinetics.Integrate(path, f.diamond.CoreNitrogen, 0)
	if err != nil {
		return nil, err
	}

	// The rim only exists (and aggregates) once elapsed time reaches its
	// growth age; before that it is held at zero aggregation.
	rim, err := integrateFrom(path, f.diamond.AgeCore-f.diamond.AgeRim, f.diamond.RimNitrogen)
	if err != nil {
		return nil, err
	}

	coreDiff := f.diamond.CoreAggregation - core.Final()
	rimDiff := f.diamond.RimAggregation - rim.Final()
	residual := residualScale * (coreDiff*coreDiff + rimDiff*rimDiff)

	return &Result{
		TStart:      tStart,
		CoolingRate: rate,
		Residual:    residual,
		Path:        path,
		Core:        core,
		Rim:         rim,
	}, nil
}

// integrateFrom integrates aggregation over the tail of the path starting
// at the sample nearest `from` Myr, padding the earlier samples with the
// unaggregated state so the history stays aligned with the full path.
func integrateFrom(path thermal.Path, from, totalNitrogen float64) (kinetics.History, error) {
	start := 0
	for start < len(path.Samples) && path.Samples[start].Elapsed < from {
		start++
	}

	tail := thermal.Path{Samples: path.Samples[start:], Dt: path.Dt}
	h, err := kinetics.Integrate(tail, totalNitrogen, 0)
	if err != nil {
		return kinetics.History{}, err
	}

	if start == 0 {
		return h, nil
	}
	pad := make([]kinetics.Point, start, start+len(h.Points))
	for i := 0; i < start; i++ {
		pad[i] = kinetics.Point{Elapsed: path.Samples[i].Elapsed, ResidualA: totalNitrogen}
	}
	h.Points = append(pad, h.Points...)
	return h, nil
}

// Run fits the cooling parameters to the measured aggregation state inside
// the configured bounds. On success the fitter transitions to Fitted and
// the winning result is cached; on failure it transitions to FitFailed and
// the returned error is a *ConvergenceError carrying the last trial.
func (f *Fitter) Run(ctx context.Context) (*Result, error) {
	f.state = StateFitting
	f.result = nil

	obj := func(x []float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		r, err := f.evaluate(x[0], x[1])
		if err != nil {
			return 0, err
		}
		return r.Residual, nil
	}

	res, err := optimize.Minimize(
		obj,
		[]float64{f.opts.TStart0, f.opts.CoolingRate0},
		[]float64{f.opts.TBounds[0], f.opts.RateBounds[0]},
		[]float64{f.opts.TBounds[1], f.opts.RateBounds[1]},
		optimize.Options{MaxIter: f.opts.MaxIter, Tol: f.opts.Tol},
	)
	if err != nil {
		f.state = StateFitFailed
		ce := &ConvergenceError{Err: err, Residual: res.F}
		if len(res.X) == 2 {
			ce.TStart, ce.CoolingRate = res.X[0], res.X[1]
		}
		zap.L().Warn("fit: optimizer failed",
			zap.Float64("t_start", ce.TStart),
			zap.Float64("cooling_rate", ce.CoolingRate),
			zap.Float64("residual", ce.Residual),
			zap.Error(err),
		)
		return nil, ce
	}

	// Re-evaluate at the winning parameters so the cached result carries
	// the full path and aggregation histories.
	result, err := f.evaluate(res.X[0], res.X[1])
	if err != nil {
		f.state = StateFitFailed
		return nil, &ConvergenceError{Err: err, TStart: res.X[0], CoolingRate: res.X[1], Residual: res.F}
	}
	result.Iterations = res.Iters
	result.Fitted = true

	f.state = StateFitted
	f.result = result

	zap.L().Info("fit: converged",
		zap.Float64("t_start", result.TStart),
		zap.Float64("cooling_rate", result.CoolingRate),
		zap.Float64("residual", result.Residual),
		zap.Int("iterations", result.Iterations),
	)
	return result, nil
}

// Project evaluates the forward model at the initial guesses without
// fitting. This is the documented fallback for inspecting a trajectory
// before (or instead of) running the optimizer; it never changes the
// fitter's state.
func (f *Fitter) Project() (*Result, error) {
	return f.evaluate(f.opts.TStart0, f.opts.CoolingRate0)
}
