package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geochron-tools/snac-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "snac-cli",
	Short: "Diamond nitrogen-aggregation thermochronometry",
	Long:  "Forward-models A- to B-centre nitrogen aggregation under candidate cooling histories and fits the starting temperature and cooling rate to measured core/rim aggregation states.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
