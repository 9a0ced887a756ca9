// Package export writes fit histories and model state for the
// presentation/plotting collaborators. No rendering happens here.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/geochron-tools/snac-cli/internal/fit"
	"github.com/geochron-tools/snac-cli/internal/model"
)

// HistoryRow is one exported time step: temperature plus the per-zone
// nitrogen partition.
type HistoryRow struct {
	Elapsed     float64 `csv:"elapsed_myr"`
	Temperature float64 `csv:"temperature_c"`
	NACore      float64 `csv:"na_core_ppm"`
	NBCore      float64 `csv:"nb_core_ppm"`
	NARim       float64 `csv:"na_rim_ppm"`
	NBRim       float64 `csv:"nb_rim_ppm"`
	AggCore     float64 `csv:"agg_core"`
	AggRim      float64 `csv:"agg_rim"`
}

// HistoryRows flattens a fit result into tabular rows, one per path sample.
func HistoryRows(r *fit.Result) ([]HistoryRow, error) {
	n := len(r.Path.Samples)
	if len(r.Core.Points) != n || len(r.Rim.Points) != n {
		return nil, eris.Errorf("export: history misaligned with path (%d samples, %d core, %d rim)",
			n, len(r.Core.Points), len(r.Rim.Points))
	}

	rows := make([]HistoryRow, n)
	for i, s := range r.Path.Samples {
		c := r.Core.Points[i]
		rm := r.Rim.Points[i]
		rows[i] = HistoryRow{
			Elapsed:     s.Elapsed,
			Temperature: s.Celsius(),
			NACore:      c.ResidualA,
			NBCore:      r.Core.TotalNitrogen - c.ResidualA,
			NARim:       rm.ResidualA,
			NBRim:       r.Rim.TotalNitrogen - rm.ResidualA,
			AggCore:     c.Fraction,
			AggRim:      rm.Fraction,
		}
	}
	return rows, nil
}

// WriteHistoryCSV writes the fit history to a CSV file. The fitted
// starting temperature and cooling rate are embedded in the filename so
// exported histories stay self-describing.
func WriteHistoryCSV(r *fit.Result, path string) (string, error) {
	rows, err := HistoryRows(r)
	if err != nil {
		return "", err
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return "", eris.Wrap(err, "export: marshal history")
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = ".csv"
	}
	out := fmt.Sprintf("%s_%.0fC_%.0fK_Gyr%s", base, r.TStart, r.CoolingRate*1000, ext)

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "export: write %s", out)
	}
	return out, nil
}

// ModelState is the persisted form of a fit configuration: the diamond,
// the options, and the fitted summary when a run has converged. It is the
// JSON round-trip format the CLI reads back with --model.
type ModelState struct {
	Diamond model.Diamond     `json:"diamond"`
	Options model.FitOptions  `json:"options"`
	Summary *model.FitSummary `json:"summary,omitempty"`
}

// SaveModelState writes the model state to a JSON file.
func SaveModelState(st ModelState, path string) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return eris.Wrap(err, "export: marshal model state")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}

// LoadModelState reads a previously saved model state.
func LoadModelState(path string) (ModelState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelState{}, eris.Wrapf(err, "export: read %s", path)
	}
	var st ModelState
	if err := json.Unmarshal(data, &st); err != nil {
		return ModelState{}, eris.Wrapf(err, "export: parse %s", path)
	}
	if err := st.Diamond.Validate(); err != nil {
		return ModelState{}, err
	}
	return st, nil
}
