// Package model holds the domain records: the measured diamond and the
// archived fit runs.
package model

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// Diamond stores the measured nitrogen aggregation state of a two-zone
// diamond: a core and a rim grown at different times, each with its own
// total nitrogen concentration and aggregation state. The record is
// read-only for the fit engine.
type Diamond struct {
	AgeCore       float64 `json:"age_core"`       // Ma
	AgeRim        float64 `json:"age_rim"`        // Ma
	AgeKimberlite float64 `json:"age_kimberlite"` // Ma, eruption age

	CoreNitrogen    float64 `json:"core_nitrogen"`    // ppm
	CoreAggregation float64 `json:"core_aggregation"` // proportion of N in B-centres
	RimNitrogen     float64 `json:"rim_nitrogen"`     // ppm
	RimAggregation  float64 `json:"rim_aggregation"`  // proportion of N in B-centres
}

// Validate checks the measurement invariants: ages ordered core >= rim >=
// kimberlite >= 0, aggregation fractions in [0, 1], non-negative nitrogen.
func (d Diamond) Validate() error {
	if d.AgeKimberlite < 0 {
		return eris.Errorf("diamond: kimberlite age %g Ma must be non-negative", d.AgeKimberlite)
	}
	if d.AgeCore < d.AgeRim || d.AgeRim < d.AgeKimberlite {
		return eris.Errorf("diamond: ages must satisfy core >= rim >= kimberlite, got %g >= %g >= %g",
			d.AgeCore, d.AgeRim, d.AgeKimberlite)
	}
	if d.CoreNitrogen < 0 || d.RimNitrogen < 0 {
		return eris.Errorf("diamond: nitrogen concentrations must be non-negative, got core %g, rim %g ppm",
			d.CoreNitrogen, d.RimNitrogen)
	}
	if d.CoreAggregation < 0 || d.CoreAggregation > 1 {
		return eris.Errorf("diamond: core aggregation %g outside [0, 1]", d.CoreAggregation)
	}
	if d.RimAggregation < 0 || d.RimAggregation > 1 {
		return eris.Errorf("diamond: rim aggregation %g outside [0, 1]", d.RimAggregation)
	}
	return nil
}

// LoadDiamond reads a diamond record from a JSON file and validates it.
func LoadDiamond(path string) (Diamond, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Diamond{}, eris.Wrapf(err, "diamond: read %s", path)
	}
	var d Diamond
	if err := json.Unmarshal(data, &d); err != nil {
		return Diamond{}, eris.Wrapf(err, "diamond: parse %s", path)
	}
	if err := d.Validate(); err != nil {
		return Diamond{}, err
	}
	return d, nil
}

// Save writes the diamond record to a JSON file.
func (d Diamond) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return eris.Wrap(err, "diamond: marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "diamond: write %s", path)
	}
	return nil
}
