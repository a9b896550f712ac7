package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"ecom-infographic/internal/config"
	"ecom-infographic/internal/dataset"
	"ecom-infographic/internal/filter"
	"ecom-infographic/internal/handlers"
	"ecom-infographic/internal/middleware"
	"ecom-infographic/internal/models"
	"ecom-infographic/internal/observability"
	"ecom-infographic/internal/server"
	"ecom-infographic/internal/views"

	"ecom-infographic/internal/ui/templates"
)

const (
	renderTimeout  = 10 * time.Second
	csvLoadTimeout = 30 * time.Second
)

// newDashboardHandler binds the page to the loaded dataset: the date picker
// bounds and the category multi-selects come from the store's domain.
func newDashboardHandler(store *dataset.Store) http.HandlerFunc {
	props := templates.Props{
		MinDate: store.MinDate(),
		MaxDate: store.MaxDate(),
		Filters: []templates.FilterGroup{
			{Dimension: "region", Label: "Regions", Values: models.Regions},
			{Dimension: "channel", Label: "Channels", Values: models.Channels},
			{Dimension: "product", Label: "Product tiers", Values: models.Products},
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		if err := templates.Dashboard(props).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application", "version", "1.0.0")

	store, err := loadDataset(cfg, logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset ready",
		"records", store.Len(),
		"min_date", store.MinDate().Format(time.DateOnly),
		"max_date", store.MaxDate().Format(time.DateOnly),
	)

	state := filter.NewState(store.MinDate(), store.MaxDate())
	hub := handlers.NewHub(logger)

	registry := views.NewRegistry(state, logger)
	for _, v := range []views.View{
		views.NewKPIView(store, hub),
		views.NewOverviewView(store, hub),
		views.NewDetailView(store, hub),
		views.NewTableView(store, hub, cfg.Dashboard.TableLimit),
	} {
		if err := registry.Mount(v); err != nil {
			logger.Error("failed to mount view", "view", v.Name(), "error", err)
			os.Exit(1)
		}
	}

	srv := server.NewServer(logger, server.Options{
		API:         handlers.NewAPIHandlers(store, state, logger, cfg.Dashboard.TableLimit),
		Interaction: handlers.NewInteractionHandlers(state, logger),
		SSE:         handlers.NewSSEHandlers(hub, logger),
		Templates:   &server.TemplateHandlers{Dashboard: newDashboardHandler(store)},
		StaticDir:   cfg.Dataset.StaticDir,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("unmounting views and closing SSE hub")
		registry.UnmountAll()
		hub.Close()
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

// loadDataset reads the configured CSV; when it is missing and generation is
// enabled, it builds the synthetic dataset in memory instead.
func loadDataset(cfg *config.Config, logger *slog.Logger) (*dataset.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), csvLoadTimeout)
	defer cancel()

	if _, err := os.Stat(cfg.Dataset.CSVFile); err == nil {
		start := time.Now()
		store, err := dataset.LoadCSV(ctx, cfg.Dataset.CSVFile)
		if err != nil {
			return nil, err
		}
		logger.Info("dataset loaded from CSV",
			"file", cfg.Dataset.CSVFile,
			"duration", time.Since(start),
		)
		return store, nil
	}

	if !cfg.Dataset.Generate {
		// Surface the loader's own descriptive error.
		return dataset.LoadCSV(ctx, cfg.Dataset.CSVFile)
	}

	logger.Info("dataset file missing, generating synthetic data",
		"seed", cfg.Dataset.Seed,
		"days", cfg.Dataset.Days,
	)
	gen := dataset.DefaultGenerateConfig()
	gen.Seed = cfg.Dataset.Seed
	gen.Days = cfg.Dataset.Days
	return dataset.NewStore(dataset.Generate(gen))
}
