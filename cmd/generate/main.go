// Command generate performs a one-shot checklist generation run. It is
// the manual counterpart of the scheduler, useful for backfills and for
// re-running a day after fixing template data; the generation ledger
// keeps re-runs idempotent.
//
// Usage:
//
//	generate [--as-of=YYYY-MM-DD]
//
// Without --as-of the run targets today (UTC). Exit codes: 0 = success,
// 1 = run error or at least one failed template.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/opsrota/opsrota-backend/internal/adapter/postgres"
	auditrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/audit"
	checklistrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/checklist"
	genrecordrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/genrecord"
	propertyrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/property"
	templaterepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/template"
	"github.com/opsrota/opsrota-backend/internal/app"
	"github.com/opsrota/opsrota-backend/internal/config"
	"github.com/opsrota/opsrota-backend/internal/domain"
	"github.com/opsrota/opsrota-backend/internal/service/generation"
)

func main() {
	asOfFlag := flag.String("as-of", "", "civil date (YYYY-MM-DD) to generate for; defaults to today")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	asOf := time.Now().UTC()
	if *asOfFlag != "" {
		asOf, err = time.ParseInLocation("2006-01-02", *asOfFlag, time.UTC)
		if err != nil {
			log.Fatalf("invalid --as-of %q: want YYYY-MM-DD", *asOfFlag)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Generation.RunTimeout)
	defer cancel()

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

	report, err := gen.Run(ctx, asOf, domain.TriggerSourceManual)
	if err != nil {
		logger.Error("generation run failed",
			slog.String("error", err.Error()),
			slog.Time("as_of", asOf),
		)
		os.Exit(1)
	}

	logger.Info("generation run finished",
		slog.Time("as_of", asOf),
		slog.Int("created", report.Created),
		slog.Int("skipped", report.Skipped),
		slog.Int("failures", len(report.Failures)),
	)

	for _, f := range report.Failures {
		logger.Warn("template generation failed",
			slog.String("template_id", f.TemplateID.String()),
			slog.String("template_name", f.TemplateName),
			slog.String("reason", f.Reason),
		)
	}

	if len(report.Failures) > 0 {
		os.Exit(1)
	}
}
