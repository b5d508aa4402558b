package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-qb-metrics/internal/pipeline"
	"github.com/pable/go-qb-metrics/internal/report"
)

var totalsQB string

var totalsCmd = &cobra.Command{
	Use:   "totals <season>",
	Short: "Show raw season totals per quarterback",
	Long: `Show season counting stats (yards, EPA, touchdowns, interceptions,
CPOE, success rate) for every qualified quarterback, with no summary
retention cutoff.`,
	Args: cobra.ExactArgs(1),
	RunE: runTotals,
}

func init() {
	totalsCmd.Flags().StringVar(&totalsQB, "qb", "", "passer to mark in the table (never filters rows)")
}

func runTotals(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[0])
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	totals, err := newPipeline(db).Totals(cmd.Context(), season)
	if err != nil {
		var noData *pipeline.NoDataError
		if errors.As(err, &noData) {
			fmt.Fprintf(os.Stdout, "No qualifying data for season %d.\n", season)
			return nil
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "\n=== Season %d Totals ===\n\n", season)
	report.PrintTotalsTable(os.Stdout, totals, totalsQB)
	return nil
}
