package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/config"
	"github.com/nimasrn/inbox-ledger/internal/handlers"
	"github.com/nimasrn/inbox-ledger/internal/ledger"
	"github.com/nimasrn/inbox-ledger/internal/services"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	xhttp "github.com/nimasrn/inbox-ledger/pkg/http"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/nimasrn/inbox-ledger/pkg/prom"
	"github.com/nimasrn/inbox-ledger/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cfg, err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	if err := logger.Configure(cfg.AppEnv, cfg.LogLevel); err != nil {
		logger.Warn("failed to configure logger, keeping defaults", "error", err)
	}
	defer logger.Sync()
	logger.Info("starting ledger", "version", version, "commit", commit, "date", date)

	database, err := db.Open(cfg.DB(), cfg.DatabaseDebug)
	if err != nil {
		logger.Error("failed opening database", "driver", cfg.DatabaseDriver, "error", err)
		return
	}
	defer database.Close()

	if err := database.MigrateDB(cfg.DatabaseDriver); err != nil {
		logger.Error("failed running migrations", "error", err)
		return
	}

	opts := ledger.Options{
		StorageRoot:         cfg.StorageRoot,
		StrictTransitions:   cfg.ExpenseStrictTransitions,
		MessageListMaxLimit: cfg.MessageListMaxLimit,
	}
	if cfg.RedisEnabled() {
		redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, cfg.RedisOptions())
		if err != nil {
			// stats are still served, just uncached
			logger.Warn("failed connecting to redis, stats cache disabled", "error", err)
		} else {
			defer redisAdap.Close()
			opts.StatsCache = services.StatsCache(redisAdap)
			opts.StatsCacheTTL = cfg.StatsCacheTTL
		}
	}

	l, err := ledger.New(database, opts)
	if err != nil {
		logger.Error("failed creating ledger", "error", err)
		return
	}

	ctx := context.Background()
	if err := l.SetSetting(ctx, "last_startup_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		logger.Warn("failed recording startup time", "error", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	if err := prom.Create(hostname, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed creating metrics", "error", err)
		return
	}
	if err := prom.RegisterCollector(prom.NewLedgerCollector(l.Snapshot)); err != nil {
		logger.Error("failed registering ledger collector", "error", err)
		return
	}

	s := xhttp.CreateServer()
	prom.Mount(s, cfg.MetricsURI)
	handlers.RegisterHealthRoutes(s.Router, handlers.NewHealthHandler(l))
	handlers.RegisterStatsRoutes(s.Router, handlers.NewStatsHandler(l))

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(cfg.MetricsListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
			c <- syscall.SIGTERM
		}
	}()

	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			p := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(p); err != nil {
				logger.Error("failed to open the passed env file", "path", p, "error", err)
				return ""
			}
			return p
		}
	}
	return ""
}
