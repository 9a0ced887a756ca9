package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/geochron-tools/snac-cli/internal/model"
	"github.com/geochron-tools/snac-cli/internal/store"
)

var (
	runsStatus string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived fit runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate fit archive")
		}

		runs, err := st.ListFitRuns(ctx, store.FitRunFilter{
			Status: model.FitRunStatus(runsStatus),
			Limit:  runsLimit,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tT_START\tRATE (K/Gyr)\tRESIDUAL\tCREATED")
		for _, r := range runs {
			tStart, rate, residual := "-", "-", "-"
			if r.Summary != nil {
				tStart = fmt.Sprintf("%.0f", r.Summary.TStart)
				rate = fmt.Sprintf("%.0f", r.Summary.CoolingRate*1000)
				residual = fmt.Sprintf("%.4g", r.Summary.Residual)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Status, tStart, rate, residual, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().StringVar(&runsStatus, "status", "", "filter by status (fitting, fitted, failed)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum rows to list")
	rootCmd.AddCommand(runsCmd)
}
