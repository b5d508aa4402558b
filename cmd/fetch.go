package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-qb-metrics/internal/nflfeed"
)

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <season>",
	Short: "Download a season's play-by-play into the local store",
	Long: `Download one season of play-by-play data from the nflverse releases and
store its dropback plays locally. Seasons already stored are skipped
unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "re-download even if the season is already stored")
}

func runFetch(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid season %q", args[0])
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if !fetchForce {
		has, err := db.HasSeason(season)
		if err != nil {
			return err
		}
		if has {
			fmt.Fprintf(os.Stdout, "Season %d already stored. Use --force to re-download.\n", season)
			return nil
		}
	}

	fmt.Fprintf(os.Stdout, "Downloading season %d play-by-play...\n", season)
	plays, err := nflfeed.NewClient().SeasonPlays(cmd.Context(), season)
	if err != nil {
		return fmt.Errorf("fetch season %d: %w", season, err)
	}
	if err := db.InsertSeason(season, plays); err != nil {
		return fmt.Errorf("store season %d: %w", season, err)
	}
	fmt.Fprintf(os.Stdout, "Stored %d dropback plays for season %d.\n", len(plays), season)
	return nil
}
