package cmd

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/pable/go-qb-metrics/internal/cache"
	"github.com/pable/go-qb-metrics/internal/config"
	"github.com/pable/go-qb-metrics/internal/nflfeed"
	"github.com/pable/go-qb-metrics/internal/pipeline"
	"github.com/pable/go-qb-metrics/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	Long: `Serve the quarterback dashboard and its JSON chart API. Configured via
QBQ_-prefixed environment variables (QBQ_ADDR, QBQ_REDIS_ADDR,
QBQ_CACHE_TTL); the --db and --redis flags still apply.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Flag wins over environment for the Redis address.
	if redisAddr != "" {
		cfg.RedisAddr = redisAddr
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	var c cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		c = cache.NewRedis(rdb)
		log.Info("using redis pipeline cache", "addr", cfg.RedisAddr)
	}

	p := pipeline.New(
		&nflfeed.StoredSource{Client: nflfeed.NewClient(), Store: db, Log: log},
		pipeline.WithCache(c),
		pipeline.WithTTL(cfg.CacheTTL),
		pipeline.WithLogger(log),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, p, log)
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
