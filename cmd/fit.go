package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geochron-tools/snac-cli/internal/export"
	"github.com/geochron-tools/snac-cli/internal/fit"
	"github.com/geochron-tools/snac-cli/internal/model"
)

var fitOpts fitFlags

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a cooling history to a diamond's measured aggregation state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		diamond, opts, err := fitOpts.resolve()
		if err != nil {
			return err
		}

		fitter, err := fit.NewFitter(diamond, opts)
		if err != nil {
			return err
		}

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate fit archive")
		}

		run, err := st.CreateFitRun(ctx, diamond, opts)
		if err != nil {
			return err
		}

		result, err := fitter.Run(ctx)
		if err != nil {
			var ce *fit.ConvergenceError
			if errors.As(err, &ce) {
				_ = st.FailFitRun(ctx, run.ID, &model.FitSummary{
					TStart:      ce.TStart,
					CoolingRate: ce.CoolingRate,
					Residual:    ce.Residual,
					Error:       ce.Error(),
				})
			}
			return err
		}

		summary := &model.FitSummary{
			TStart:      result.TStart,
			CoolingRate: result.CoolingRate,
			Residual:    result.Residual,
			Iterations:  result.Iterations,
		}
		if err := st.CompleteFitRun(ctx, run.ID, summary); err != nil {
			return err
		}

		fmt.Printf("fitted model:\n  starting T:   %.0f deg. C\n  cooling rate: %.0f K/Gyr\n  residual:     %.4g\n",
			result.TStart, result.CoolingRate*1000, result.Residual)

		csvPath, err := export.WriteHistoryCSV(result, filepath.Join(fitOpts.outDir, "model_history.csv"))
		if err != nil {
			return err
		}
		statePath := filepath.Join(fitOpts.outDir, "model_results.json")
		if err := export.SaveModelState(export.ModelState{Diamond: diamond, Options: opts, Summary: summary}, statePath); err != nil {
			return err
		}

		zap.L().Info("fit results saved",
			zap.String("run_id", run.ID),
			zap.String("history_csv", csvPath),
			zap.String("model_state", statePath),
		)
		return nil
	},
}

func init() {
	fitOpts.register(fitCmd)
	rootCmd.AddCommand(fitCmd)
}
