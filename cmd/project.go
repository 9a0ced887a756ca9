package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geochron-tools/snac-cli/internal/export"
	"github.com/geochron-tools/snac-cli/internal/fit"
)

var projectOpts fitFlags

// project evaluates the forward model at the initial guesses without
// running the optimizer. This is the explicit pre-fit fallback for
// inspecting a trajectory.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Evaluate the forward model at the initial guesses, without fitting",
	RunE: func(cmd *cobra.Command, args []string) error {
		diamond, opts, err := projectOpts.resolve()
		if err != nil {
			return err
		}

		fitter, err := fit.NewFitter(diamond, opts)
		if err != nil {
			return err
		}

		result, err := fitter.Project()
		if err != nil {
			return err
		}

		fmt.Printf("projected trajectory (unfitted):\n  starting T:   %.0f deg. C\n  cooling rate: %.0f K/Gyr\n  core aggregation: %.3f (measured %.3f)\n  rim aggregation:  %.3f (measured %.3f)\n",
			result.TStart, result.CoolingRate*1000,
			result.CoreFraction(), diamond.CoreAggregation,
			result.RimFraction(), diamond.RimAggregation)

		csvPath, err := export.WriteHistoryCSV(result, filepath.Join(projectOpts.outDir, "projected_history.csv"))
		if err != nil {
			return err
		}
		zap.L().Info("projection saved", zap.String("history_csv", csvPath))
		return nil
	},
}

func init() {
	projectOpts.register(projectCmd)
	rootCmd.AddCommand(projectCmd)
}
