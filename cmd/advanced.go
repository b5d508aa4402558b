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

var advancedQB string

var advancedCmd = &cobra.Command{
	Use:   "advanced <season>",
	Short: "Show advanced per-quarterback detail, clutch vs non-clutch",
	Long: `Show the advanced detail view: CPOE, adjusted EPA, pass and air yards,
and pressure rate faced — overall and split clutch vs non-clutch.
Use --qb to restrict output to one passer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdvanced,
}

func init() {
	advancedCmd.Flags().StringVar(&advancedQB, "qb", "", "show only this passer")
}

func runAdvanced(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[0])
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := newPipeline(db).Advanced(cmd.Context(), season, advancedQB)
	if err != nil {
		var noData *pipeline.NoDataError
		if errors.As(err, &noData) {
			fmt.Fprintf(os.Stdout, "No qualifying data for season %d.\n", season)
			return nil
		}
		return err
	}
	if len(stats) == 0 {
		fmt.Fprintf(os.Stdout, "No qualified passer %q in season %d.\n", advancedQB, season)
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Season %d Advanced Stats ===\n\n", season)
	report.PrintAdvancedTable(os.Stdout, stats)
	return nil
}
