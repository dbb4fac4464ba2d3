package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carelinkhq/prescription-ai/internal/adapters/cache"
	"github.com/carelinkhq/prescription-ai/internal/adapters/database"
	"github.com/carelinkhq/prescription-ai/internal/adapters/events"
	"github.com/carelinkhq/prescription-ai/internal/api/handlers"
	"github.com/carelinkhq/prescription-ai/internal/api/middleware"
	"github.com/carelinkhq/prescription-ai/internal/api/routes"
	"github.com/carelinkhq/prescription-ai/internal/application/services"
	"github.com/carelinkhq/prescription-ai/internal/domain/providers"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/clients/gemini"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/clients/postgres"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/clients/redis"
	"github.com/carelinkhq/prescription-ai/internal/infrastructure/observability"
	"github.com/carelinkhq/prescription-ai/internal/knowledge"
	"github.com/carelinkhq/prescription-ai/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger("prescription-ai", cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Load the medication reference tables. The pipeline cannot run
	// without them.
	kb, err := knowledge.Load(cfg.Knowledge.MedicationPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Knowledge.MedicationPath).Msg("Failed to load medication knowledge base")
	}
	log.Info().Int("medications", kb.Len()).Msg("Medication knowledge base loaded")

	interactions, err := knowledge.LoadInteractions(cfg.Knowledge.InteractionPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Knowledge.InteractionPath).Msg("Failed to load drug interaction table")
	}

	// Initialize Gemini client
	geminiClient, err := gemini.NewClient(&cfg.Gemini)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}

	// Initialize database client. The extraction endpoint works without
	// Postgres; only the prescription workflow needs it.
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize PostgreSQL client; prescription workflow disabled")
		pgClient = nil
	} else {
		defer pgClient.Close()
		log.Info().Msg("PostgreSQL client initialized successfully")
	}

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client; continuing without caching")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for prescription workflow updates
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("Event bus initialized successfully")
	} else {
		log.Info().Msg("Event bus disabled (Redis not available)")
	}

	// Initialize services

	extractionService := services.NewExtractionService(geminiClient, kb, interactions)
	extractionService.SetMetrics(metrics)
	if cacheProvider != nil {
		extractionService.SetCache(cacheProvider)
	}

	var prescriptionService *services.PrescriptionService
	if pgClient != nil {
		prescriptionRepo := database.NewPrescriptionAdapter(pgClient)
		prescriptionService = services.NewPrescriptionService(prescriptionRepo, eventBus)
	}

	// Initialize handlers

	extractionHandler := handlers.NewExtractionHandler(extractionService)
	knowledgeHandler := handlers.NewKnowledgeHandler(kb, interactions)

	var prescriptionHandler *handlers.PrescriptionHandler
	if prescriptionService != nil {
		prescriptionHandler = handlers.NewPrescriptionHandler(prescriptionService)
	}

	var eventsHandler *handlers.EventsHandler
	if eventBus != nil {
		eventsHandler = handlers.NewEventsHandler(eventBus)
	}

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Info().Msg("Cache middleware initialized successfully")
	}

	// Set up router

	router := routes.NewRouter(
		extractionHandler,
		prescriptionHandler,
		knowledgeHandler,
		eventsHandler,
		cacheMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
