// Command scheduler runs the daily checklist generation loop. It fires
// one generation pass at the configured UTC wall-clock time and keeps
// running until SIGINT or SIGTERM, waiting for an in-flight run to
// finish before exiting.
//
// Exit codes: 0 = clean shutdown, 1 = startup error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/opsrota/opsrota-backend/internal/adapter/postgres"
	auditrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/audit"
	checklistrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/checklist"
	genrecordrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/genrecord"
	propertyrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/property"
	templaterepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/template"
	"github.com/opsrota/opsrota-backend/internal/app"
	"github.com/opsrota/opsrota-backend/internal/config"
	"github.com/opsrota/opsrota-backend/internal/scheduler"
	"github.com/opsrota/opsrota-backend/internal/service/generation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	gen := generation.NewService(
		logger,
		templaterepo.New(pool),
		propertyrepo.New(pool),
		genrecordrepo.New(pool),
		checklistrepo.New(pool),
		auditrepo.New(pool),
		postgres.NewTxManager(pool),
	)

	sched, err := scheduler.New(gen, cfg.Generation.DailyRunTime, cfg.Generation.RunTimeout, logger)
	if err != nil {
		logger.Error("configure scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sched.Start()
	logger.Info("scheduler running",
		slog.String("daily_run_time", cfg.Generation.DailyRunTime),
		slog.Duration("run_timeout", cfg.Generation.RunTimeout),
	)

	<-ctx.Done()
	sched.Stop()
}
