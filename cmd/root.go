package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pable/go-qb-metrics/internal/cache"
	"github.com/pable/go-qb-metrics/internal/nflfeed"
	"github.com/pable/go-qb-metrics/internal/pipeline"
	"github.com/pable/go-qb-metrics/internal/storage"
)

var (
	dbPath    string
	redisAddr string
)

var rootCmd = &cobra.Command{
	Use:   "qbmetrics",
	Short: "Quarterback performance metrics tool",
	Long: "Compute defense-adjusted, OL-adjusted and clutch quarterback metrics\n" +
		"from NFL play-by-play data, as tables or a web dashboard.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".qbmetrics", "plays.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite play store")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "", "Redis address for the shared pipeline cache (optional)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(advancedCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(serveCmd)
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// openStore opens the play store, creating its directory on first use.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open play store: %w", err)
	}
	return db, nil
}

// newPipeline wires the standard CLI pipeline: feed behind the local store,
// plus the Redis cache when one was configured.
func newPipeline(db *storage.DB) *pipeline.Pipeline {
	source := &nflfeed.StoredSource{
		Client: nflfeed.NewClient(),
		Store:  db,
	}
	opts := []pipeline.Option{}
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		opts = append(opts, pipeline.WithCache(cache.NewRedis(rdb)))
	}
	return pipeline.New(source, opts...)
}
