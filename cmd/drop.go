package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var dropCmd = &cobra.Command{
	Use:   "drop <season>",
	Short: "Remove a season from the local play store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func runDrop(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[0])
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteSeason(season); err != nil {
		return fmt.Errorf("delete season %d: %w", season, err)
	}
	fmt.Fprintf(os.Stdout, "Dropped season %d.\n", season)
	return nil
}
