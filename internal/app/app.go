package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/opsrota/opsrota-backend/internal/adapter/postgres"
	approvalrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/approval"
	auditrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/audit"
	checklistrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/checklist"
	genrecordrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/genrecord"
	propertyrepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/property"
	responserepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/response"
	templaterepo "github.com/opsrota/opsrota-backend/internal/adapter/postgres/template"
	"github.com/opsrota/opsrota-backend/internal/auth"
	"github.com/opsrota/opsrota-backend/internal/config"
	checklistsvc "github.com/opsrota/opsrota-backend/internal/service/checklist"
	generationsvc "github.com/opsrota/opsrota-backend/internal/service/generation"
	propertysvc "github.com/opsrota/opsrota-backend/internal/service/property"
	templatesvc "github.com/opsrota/opsrota-backend/internal/service/template"
	"github.com/opsrota/opsrota-backend/internal/transport/middleware"
	"github.com/opsrota/opsrota-backend/internal/transport/rest"
)

// Run is the API server entry point. It loads configuration, connects
// to PostgreSQL, wires repositories, services and REST handlers, and
// serves HTTP until the context is canceled or a termination signal
// arrives. Shutdown drains in-flight requests within the configured
// timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	tx := postgres.NewTxManager(pool)

	templates := templaterepo.New(pool)
	properties := propertyrepo.New(pool)
	checklists := checklistrepo.New(pool)
	responses := responserepo.New(pool)
	approvals := approvalrepo.New(pool)
	records := genrecordrepo.New(pool)
	audit := auditrepo.New(pool)

	templateSvc := templatesvc.NewService(logger, templates, responses, audit, tx)
	propertySvc := propertysvc.NewService(logger, properties, templates, audit, tx)
	checklistSvc := checklistsvc.NewService(logger, checklists, templates, responses, approvals, audit, tx)
	generationSvc := generationsvc.NewService(logger, templates, properties, records, checklists, audit, tx)

	router := rest.NewRouter(rest.Handlers{
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
		Templates:  rest.NewTemplateHandler(templateSvc, logger),
		Properties: rest.NewPropertyHandler(propertySvc, logger),
		Checklists: rest.NewChecklistHandler(checklistSvc, audit, logger),
		Generation: rest.NewGenerationHandler(generationSvc, logger),
	})

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.RateLimit.PerMinute),
		middleware.Identity(verifier),
	)(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("stopped")
	return nil
}
