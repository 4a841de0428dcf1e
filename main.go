package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/FACorreiaa/city-explorer-api/app/db"
	appLogger "github.com/FACorreiaa/city-explorer-api/app/logger"
	"github.com/FACorreiaa/city-explorer-api/app/tracer"
	"github.com/FACorreiaa/city-explorer-api/config"
	"github.com/FACorreiaa/city-explorer-api/internal/api/city"
	"github.com/FACorreiaa/city-explorer-api/internal/api/favorites"
	"github.com/FACorreiaa/city-explorer-api/internal/api/places"
	"github.com/FACorreiaa/city-explorer-api/internal/api/plan"
	"github.com/FACorreiaa/city-explorer-api/internal/api/recents"
	"github.com/FACorreiaa/city-explorer-api/internal/dispatch"
	"github.com/FACorreiaa/city-explorer-api/internal/nominatim"
	"github.com/FACorreiaa/city-explorer-api/internal/overpass"
	"github.com/FACorreiaa/city-explorer-api/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port, logger)

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations *before* initializing the main pool
	err = database.RunMigrations(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Upstream clients ---
	// Each upstream service gets its own dispatcher so Overpass traffic
	// never delays Nominatim lookups, and vice versa.
	overpassDispatcher := dispatch.New("overpass",
		time.Duration(cfg.Upstream.Overpass.MinRequestInterval)*time.Millisecond, logger)
	defer overpassDispatcher.Stop()

	nominatimDispatcher := dispatch.New("nominatim",
		time.Duration(cfg.Upstream.Nominatim.MinRequestInterval)*time.Millisecond, logger)
	defer nominatimDispatcher.Stop()

	transport, err := overpass.NewTransport(overpass.TransportConfig{
		Mirrors:        cfg.Upstream.Overpass.Mirrors,
		UserAgent:      cfg.Upstream.Overpass.UserAgent,
		RequestTimeout: cfg.Upstream.Overpass.RequestTimeout,
	}, overpassDispatcher, logger)
	if err != nil {
		logger.Error("Failed to initialize Overpass transport", slog.Any("error", err))
		os.Exit(1)
	}
	overpassClient := overpass.NewClient(transport, cfg.Upstream.Overpass.QueryTimeout, logger)

	nominatimClient := nominatim.NewClient(nominatim.Config{
		BaseURL:        cfg.Upstream.Nominatim.BaseURL,
		UserAgent:      cfg.Upstream.Nominatim.UserAgent,
		RequestTimeout: cfg.Upstream.Nominatim.RequestTimeout,
	}, nominatimDispatcher, logger)

	// --- Dependency Injection ---
	placesService := places.NewServiceImpl(overpassClient, overpass.Categories(),
		cfg.Cache.SearchTTL, cfg.Cache.DetailTTL, logger)
	placesHandler := places.NewHandler(placesService, logger)

	cityService := city.NewServiceImpl(nominatimClient, logger)
	cityHandler := city.NewHandler(cityService, logger)

	favoritesRepo := favorites.NewRepository(pool, logger)
	favoritesService := favorites.NewServiceImpl(favoritesRepo, logger)
	favoritesHandler := favorites.NewHandler(favoritesService, logger)

	planRepo := plan.NewRepository(pool, logger)
	planService := plan.NewServiceImpl(planRepo, logger)
	planHandler := plan.NewHandler(planService, logger)

	recentsRepo := recents.NewRepository(pool, logger)
	recentsService := recents.NewServiceImpl(recentsRepo, logger)
	recentsHandler := recents.NewHandler(recentsService, logger)

	// --- Router Setup ---
	mainRouter := router.SetupRouter(&router.Config{
		PlacesHandler:    placesHandler,
		CityHandler:      cityHandler,
		FavoritesHandler: favoritesHandler,
		PlanHandler:      planHandler,
		RecentsHandler:   recentsHandler,
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "Root endpoint hit")
		w.Write([]byte("Welcome to City Explorer API"))
	})

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
