// Command lensctl runs console operations from a terminal: statistics and
// order tables, backup export and restore, monthly metrics import.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/diewo77/lens-console/internal/config"
	"github.com/diewo77/lens-console/internal/db"
	"github.com/diewo77/lens-console/internal/logger"
	"github.com/diewo77/lens-console/internal/services"
	"github.com/diewo77/lens-console/internal/spreadsheet"
	"github.com/diewo77/lens-console/internal/store"
)

const usage = `usage: lensctl <command> [flags]

commands:
  stats           today and month statistics
  orders          list orders (optionally filtered by surname or bin)
  export          write a JSON backup
  restore         replace data from a JSON backup (needs -yes)
  import-metrics  import the monthly metrics spreadsheet
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	conn, err := db.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.Migrate(conn, cfg.Database); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	c := &cli{
		store:  store.New(conn, log),
		parser: spreadsheet.NewParser(),
		clock:  services.SystemClock(cfg.App.Location()),
		log:    log,
		out:    os.Stdout,
	}
	if err := c.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "lensctl %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}
