package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geochron-tools/snac-cli/internal/kinetics"
)

var (
	isothermFraction float64
	isothermNitrogen float64
	isothermDuration float64
)

var isothermCmd = &cobra.Command{
	Use:   "isotherm",
	Short: "Solve for the constant temperature matching a measured aggregation state",
	Long:  "Inverts the aggregation rate law under the assumption of a single constant temperature held for the given duration. Diagnostic only; the fit command models a full cooling history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := kinetics.SolveIsothermalTemperature(isothermFraction, isothermNitrogen, isothermDuration)
		if err != nil {
			return err
		}
		fmt.Printf("equivalent isothermal temperature: %.1f deg. C\n", t)
		return nil
	},
}

func init() {
	isothermCmd.Flags().Float64Var(&isothermFraction, "fraction", 0, "measured aggregation fraction (0-1, exclusive)")
	isothermCmd.Flags().Float64Var(&isothermNitrogen, "nitrogen", 0, "total nitrogen concentration (ppm)")
	isothermCmd.Flags().Float64Var(&isothermDuration, "duration", 0, "mantle residence duration (Myr)")
	_ = isothermCmd.MarkFlagRequired("fraction")
	_ = isothermCmd.MarkFlagRequired("nitrogen")
	_ = isothermCmd.MarkFlagRequired("duration")
	rootCmd.AddCommand(isothermCmd)
}
