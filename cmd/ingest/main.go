package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/nimasrn/inbox-ledger/internal/config"
	"github.com/nimasrn/inbox-ledger/internal/ingest"
	"github.com/nimasrn/inbox-ledger/internal/ledger"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
)

// main.go --env=.env --phone=5511999887766 --name="Maria" --dir=./export --workers=4
func main() {
	cfg, err := config.Load(argValue("env"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(cfg.AppEnv, cfg.LogLevel); err != nil {
		logger.Warn("failed to configure logger, keeping defaults", "error", err)
	}
	defer logger.Sync()

	phone, dir := argValue("phone"), argValue("dir")
	if phone == "" || dir == "" {
		logger.Error("usage: ingest --phone=<number> --dir=<export dir> [--name=] [--workers=] [--env=]")
		os.Exit(2)
	}
	workers, _ := strconv.Atoi(argValue("workers"))

	database, err := db.Open(cfg.DB(), cfg.DatabaseDebug)
	if err != nil {
		logger.Error("failed opening database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	if err := database.MigrateDB(cfg.DatabaseDriver); err != nil {
		logger.Error("failed running migrations", "error", err)
		os.Exit(1)
	}

	l, err := ledger.New(database, ledger.Options{
		StorageRoot:         cfg.StorageRoot,
		StrictTransitions:   cfg.ExpenseStrictTransitions,
		MessageListMaxLimit: cfg.MessageListMaxLimit,
	})
	if err != nil {
		logger.Error("failed creating ledger", "error", err)
		os.Exit(1)
	}

	report, err := ingest.NewImporter(l, workers).Import(context.Background(), phone, argValue("name"), dir)
	if err != nil {
		logger.Error("import failed", "dir", dir, "error", err)
		os.Exit(1)
	}
	for _, f := range report.Failed {
		logger.Warn("not imported", "path", f.Path, "error", f.Err)
	}
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}

func argValue(name string) string {
	prefix := "--" + name + "="
	for _, v := range os.Args[1:] {
		if strings.HasPrefix(v, prefix) {
			return strings.TrimPrefix(v, prefix)
		}
	}
	return ""
}
