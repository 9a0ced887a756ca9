package model

import "time"

// FitRunStatus represents the state of an archived fit run.
type FitRunStatus string

const (
	FitRunStatusFitting FitRunStatus = "fitting"
	FitRunStatusFitted  FitRunStatus = "fitted"
	FitRunStatusFailed  FitRunStatus = "failed"
)

// FitOptions is the configuration surface of the fit driver, persisted
// alongside each archived run so results are reproducible.
type FitOptions struct {
	CoolingRate0   float64    `json:"cooling_rate0"` // initial rate guess (K/Myr)
	TStart0        float64    `json:"t_start0"`      // initial temperature guess (deg. C)
	RateBounds     [2]float64 `json:"rate_bounds"`
	TBounds        [2]float64 `json:"t_bounds"`
	Dt             float64    `json:"dt"` // integration step (Myr)
	Scenario       string     `json:"scenario"`
	ScenarioParams []float64  `json:"scenario_params,omitempty"`
	CoolingLaw     string     `json:"cooling_law,omitempty"` // "linear" (default) or "exponential"
	MaxIter        int        `json:"max_iter,omitempty"`
	Tol            float64    `json:"tol,omitempty"`
}

// FitSummary is the archived outcome of a fit run.
type FitSummary struct {
	TStart      float64 `json:"t_start"`      // fitted starting temperature (deg. C)
	CoolingRate float64 `json:"cooling_rate"` // fitted cooling rate (K/Myr)
	Residual    float64 `json:"residual"`
	Iterations  int     `json:"iterations"`
	Error       string  `json:"error,omitempty"`
}

// FitRun is one archived invocation of the fit driver.
type FitRun struct {
	ID        string       `json:"id"`
	Diamond   Diamond      `json:"diamond"`
	Options   FitOptions   `json:"options"`
	Status    FitRunStatus `json:"status"`
	Summary   *FitSummary  `json:"summary,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
