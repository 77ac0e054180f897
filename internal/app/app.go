package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"surveypulse/internal/config"
	apierrors "surveypulse/internal/errors"
	"surveypulse/internal/exporter"
	"surveypulse/internal/infrastructure"
	custommw "surveypulse/internal/middleware"
	"surveypulse/internal/services"
	"surveypulse/internal/snapshot"
	handlers "surveypulse/internal/transport/http"
	"surveypulse/pkg/contracts"
)

const AppName = "SurveyPulse - Painel de Satisfação de Treinamentos"

// Application is the assembled server with its service container
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Metrics   *services.Metrics
	Survey    *services.SurveyService
	Dashboard *services.DashboardService
	Health    *services.HealthService
}

// New loads configuration, initializes logging and assembles the
// application.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewWithConfig(cfg, logger)
}

// NewWithConfig assembles the application from an existing configuration
// and logger. It is the composition root: every service and handler is
// wired here.
func NewWithConfig(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	cfg.Paths.ExecutableDir = paths.ExecutableDir
	cfg.Paths.DataDir = paths.DataDir
	cfg.Paths.LogsDir = paths.LogsDir
	cfg.Paths.WebDir = paths.WebDir

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("data_dir", paths.DataDir))

	metrics := services.NewMetrics()
	store := snapshot.NewStore(cfg.SnapshotPath(), logger)

	survey := services.NewSurveyService(cfg.Import, store, metrics, logger)
	dashboard := services.NewDashboardService(metrics, logger)
	health := services.NewHealthService(contracts.Version, survey)

	if err := survey.LoadSnapshot(context.Background()); err != nil {
		// A broken snapshot should not keep the server down
		logger.Warn("failed to restore snapshot",
			slog.String("error", err.Error()))
	}

	app := &Application{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics,
		Survey:    survey,
		Dashboard: dashboard,
		Health:    health,
	}

	app.Router = app.buildRouter(paths)
	app.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.Router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// buildRouter assembles the chi router with the full middleware chain
func (a *Application) buildRouter(paths *config.Paths) *chi.Mux {
	cfg := a.Config
	logger := a.Logger

	errorHandler := apierrors.NewErrorHandler(logger, cfg.Logging.Development)
	validation := custommw.NewValidationMiddleware(logger, errorHandler)
	recordsExporter := exporter.NewRecordsExporter(paths)

	surveyHandler := handlers.NewSurveyHandler(
		a.Survey,
		a.Dashboard,
		recordsExporter,
		validation,
		cfg.Import.MaxUploadBytes,
		logger,
		errorHandler,
	)
	healthHandler := handlers.NewHealthHandler(a.Health, logger)

	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(apierrors.NewErrorMiddleware(errorHandler, logger).Handler)
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))
	r.Use(custommw.StripSlashes)

	if cfg.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: cfg.Security.AllowedOrigins,
		}))
	}
	if cfg.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			int(cfg.Security.RateLimit.RPS),
			cfg.Security.RateLimit.Burst,
			logger,
		)
		r.Use(limiter.Handler)
	}

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(api chi.Router) {
		api.Use(custommw.Timeout(cfg.Server.WriteTimeout, logger))
		api.Use(validation.Handler)
		api.Mount("/health", healthHandler.Routes())
		api.Mount("/", surveyHandler.Routes())
	})
	r.Handle("/metrics", handlers.MetricsHandler(a.Metrics))

	// Serve the dashboard UI when a web directory is present
	if info, err := os.Stat(paths.WebDir); err == nil && info.IsDir() {
		fileServer := http.FileServer(http.Dir(paths.WebDir))
		r.Handle("/*", fileServer)
	}

	return r
}

// Run starts the HTTP server and blocks until shutdown. The server
// stops on context cancellation, SIGINT or SIGTERM, draining in-flight
// requests within the configured timeout.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("http server listening",
			slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		a.Logger.Info("shutting down http server")
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}
