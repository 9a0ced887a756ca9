package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/geochron-tools/snac-cli/internal/export"
	"github.com/geochron-tools/snac-cli/internal/model"
	"github.com/geochron-tools/snac-cli/internal/store"
)

// fitFlags holds the per-invocation overrides of the configured fit
// defaults. Zero values mean "use config".
type fitFlags struct {
	diamondFile string
	modelFile   string
	outDir      string

	coolingRate0   float64
	tStart0        float64
	rateBounds     []float64
	tBounds        []float64
	dt             float64
	scenario       string
	scenarioParams []float64
	coolingLaw     string
}

func (f *fitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.diamondFile, "diamond", "", "path to diamond record JSON")
	cmd.Flags().StringVar(&f.modelFile, "model", "", "path to a saved model state JSON (takes precedence over --diamond)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", ".", "directory for CSV and model-state output")
	cmd.Flags().Float64Var(&f.coolingRate0, "cooling-rate0", 0, "initial cooling rate guess (K/Myr)")
	cmd.Flags().Float64Var(&f.tStart0, "t-start0", 0, "initial starting temperature guess (deg. C)")
	cmd.Flags().Float64SliceVar(&f.rateBounds, "rate-bounds", nil, "cooling rate bounds min,max (K/Myr)")
	cmd.Flags().Float64SliceVar(&f.tBounds, "t-bounds", nil, "starting temperature bounds min,max (deg. C)")
	cmd.Flags().Float64Var(&f.dt, "dt", 0, "integration step (Myr)")
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "cooling scenario tag")
	cmd.Flags().Float64SliceVar(&f.scenarioParams, "scenario-params", nil, "scenario-specific numeric parameters")
	cmd.Flags().StringVar(&f.coolingLaw, "cooling-law", "", "baseline cooling law: linear or exponential")
}

// resolve builds the diamond and fit options from a saved model state or a
// diamond file, applying config defaults and then flag overrides.
func (f *fitFlags) resolve() (model.Diamond, model.FitOptions, error) {
	rateBounds, tBounds, err := cfg.Fit.Bounds()
	if err != nil {
		return model.Diamond{}, model.FitOptions{}, err
	}

	opts := model.FitOptions{
		CoolingRate0:   cfg.Fit.CoolingRate0,
		TStart0:        cfg.Fit.TStart0,
		RateBounds:     rateBounds,
		TBounds:        tBounds,
		Dt:             cfg.Fit.Dt,
		Scenario:       cfg.Fit.Scenario,
		ScenarioParams: cfg.Fit.ScenarioParams,
		CoolingLaw:     cfg.Fit.CoolingLaw,
		MaxIter:        cfg.Fit.MaxIter,
		Tol:            cfg.Fit.Tol,
	}

	var diamond model.Diamond
	switch {
	case f.modelFile != "":
		st, err := export.LoadModelState(f.modelFile)
		if err != nil {
			return model.Diamond{}, model.FitOptions{}, err
		}
		diamond = st.Diamond
		opts = st.Options
	case f.diamondFile != "":
		diamond, err = model.LoadDiamond(f.diamondFile)
		if err != nil {
			return model.Diamond{}, model.FitOptions{}, err
		}
	default:
		return model.Diamond{}, model.FitOptions{}, eris.New("either --diamond or --model is required")
	}

	if f.coolingRate0 != 0 {
		opts.CoolingRate0 = f.coolingRate0
	}
	if f.tStart0 != 0 {
		opts.TStart0 = f.tStart0
	}
	if len(f.rateBounds) == 2 {
		opts.RateBounds = [2]float64{f.rateBounds[0], f.rateBounds[1]}
	}
	if len(f.tBounds) == 2 {
		opts.TBounds = [2]float64{f.tBounds[0], f.tBounds[1]}
	}
	if f.dt != 0 {
		opts.Dt = f.dt
	}
	if f.scenario != "" {
		opts.Scenario = f.scenario
		opts.ScenarioParams = f.scenarioParams
	}
	if f.coolingLaw != "" {
		opts.CoolingLaw = f.coolingLaw
	}

	return diamond, opts, nil
}

func initStore() (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open fit archive")
	}
	return st, nil
}
