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

var summaryQB string

var summaryCmd = &cobra.Command{
	Use:   "summary <season>",
	Short: "Show the season EPA summary table",
	Long: `Compute the defense- and OL-adjusted season EPA summary for every
quarterback with enough dropbacks, including the clutch / non-clutch
split. Use --qb to mark one passer's row.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryQB, "qb", "", "passer to mark in the table (never filters rows)")
}

func runSummary(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[0])
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	summaries, err := newPipeline(db).Summaries(cmd.Context(), season)
	if err != nil {
		var noData *pipeline.NoDataError
		if errors.As(err, &noData) {
			fmt.Fprintf(os.Stdout, "No qualifying data for season %d.\n", season)
			return nil
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "\n=== Season %d EPA Summary ===\n\n", season)
	report.PrintSummaryTable(os.Stdout, summaries, summaryQB)
	return nil
}
