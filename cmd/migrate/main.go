package main

import (
	"os"
	"strings"

	"github.com/nimasrn/inbox-ledger/internal/config"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(cfg.DB()); err != nil {
		logger.Error("migration: error running migrations", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	logger.Info("migration: done", "driver", cfg.DatabaseDriver)
}

func getEnvPath() string {
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
	if _, err := os.Stat(".env"); err != nil {
		return ""
	}
	return ".env"
}
