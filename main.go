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
	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	database "github.com/FACorreiaa/go-city-info-engine/app/db"
	appLogger "github.com/FACorreiaa/go-city-info-engine/app/logger"
	appMiddleware "github.com/FACorreiaa/go-city-info-engine/app/middleware"
	"github.com/FACorreiaa/go-city-info-engine/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-engine/config"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/aggregator"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/cache"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/comments"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/favorites"
	generativeAI "github.com/FACorreiaa/go-city-info-engine/internal/api/generative_ai"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/itinerary"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/providers"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/search"
	"github.com/FACorreiaa/go-city-info-engine/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
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

	// --- Metrics ---
	exporter, err := otelprometheus.New()
	if err != nil {
		logger.Error("Failed to create prometheus exporter", slog.Any("error", err))
		os.Exit(1)
	}
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(meterProvider)
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
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

	// --- Cache store ---
	var store cache.Store
	if cfg.Cache.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer client.Close()
		store = cache.NewRedisStore(client, logger)
		logger.Info("Using redis cache store")
	} else {
		store = cache.NewMemoryStore()
		logger.Info("Using in-memory cache store")
	}

	// --- Providers ---
	weather := providers.NewWeatherbitClient(os.Getenv("WEATHERBIT_API_KEY"))
	news := providers.NewNewsAPIClient(os.Getenv("NEWS_API_KEY"))
	places := providers.NewFoursquareClient(os.Getenv("FOURSQUARE_API_KEY"))
	photo := providers.NewUnsplashClient(os.Getenv("UNSPLASH_ACCESS_KEY"))

	// --- Dependency injection ---
	aggService := aggregator.NewServiceImpl(store, weather, news, places, photo, aggregator.Config{
		ProviderTimeout: cfg.Providers.Timeout,
		WeatherTTL:      cfg.Providers.WeatherTTL,
		NewsTTL:         cfg.Providers.NewsTTL,
		PlacesTTL:       cfg.Providers.PlacesTTL,
		PhotoTTL:        cfg.Providers.PhotoTTL,
	}, logger)

	searchRepo := search.NewPostgresRepository(pool, logger)
	searchService := search.NewServiceImpl(searchRepo, logger)
	searchHandler := search.NewHandler(searchService, logger)

	aggHandler := aggregator.NewHandler(aggService, searchService, logger)

	itinService := itinerary.NewServiceImpl(func(ctx context.Context) (itinerary.Backend, error) {
		return generativeAI.NewAIClient(ctx)
	}, logger)
	itinHandler := itinerary.NewHandler(itinService, logger)

	favRepo := favorites.NewPostgresRepository(pool, logger)
	favService := favorites.NewServiceImpl(favRepo, logger)
	favHandler := favorites.NewHandler(favService, logger)

	commentsRepo := comments.NewPostgresRepository(pool, logger)
	commentsService := comments.NewServiceImpl(commentsRepo, logger)
	commentsHandler := comments.NewHandler(commentsService, logger)

	// --- Scheduled cache flush ---
	scheduler := gocron.NewScheduler(time.UTC)
	if cfg.Cache.FlushInterval > 0 {
		_, err = scheduler.Every(cfg.Cache.FlushInterval).Do(func() {
			aggService.ClearCache()
			metrics.Get().RecordCacheClear(context.Background())
			logger.Info("Scheduled cache flush completed")
		})
		if err != nil {
			logger.Error("Failed to schedule cache flush", slog.Any("error", err))
			os.Exit(1)
		}
		scheduler.StartAsync()
		defer scheduler.Stop()
	}

	// --- Router ---
	routerConfig := &router.Config{
		AggregatorHandler:      aggHandler,
		ItineraryHandler:       itinHandler,
		FavoritesHandler:       favHandler,
		CommentsHandler:        commentsHandler,
		SearchHandler:          searchHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate,
	}
	mainRouter := router.SetupRouter(routerConfig)

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(60 * time.Second))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Mount("/", mainRouter)

	// --- HTTP server ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
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

// setupLogger picks colored tint output in development and JSON elsewhere.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
	}
	return logger
}
