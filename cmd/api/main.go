package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/estatehub/estatehub/internal/adapters/cache"
	"github.com/estatehub/estatehub/internal/adapters/database"
	"github.com/estatehub/estatehub/internal/api/handlers"
	"github.com/estatehub/estatehub/internal/api/routes"
	"github.com/estatehub/estatehub/internal/application/services"
	"github.com/estatehub/estatehub/internal/domain/providers"
	"github.com/estatehub/estatehub/internal/domain/repositories"
	"github.com/estatehub/estatehub/internal/infrastructure/clients/postgres"
	"github.com/estatehub/estatehub/internal/infrastructure/clients/redis"
	"github.com/estatehub/estatehub/internal/infrastructure/observability"
	"github.com/estatehub/estatehub/pkg/config"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("estatehub-api", cfg.Environment)

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client; the application degrades to uncached reads
	// when it is unavailable
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, running without cache")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Initialize adapters
	basePropertyAdapter := database.NewPropertyAdapter(pgClient)

	var propertyRepo repositories.PropertyRepository
	if cacheProvider != nil {
		propertyRepo = database.NewCachedPropertyAdapter(basePropertyAdapter, cacheProvider, cfg.Cache.PropertyTTL)
		log.Info().Msg("property adapter wrapped with caching layer")
	} else {
		propertyRepo = basePropertyAdapter
	}

	// Initialize services
	ratingService := services.NewRatingService()
	listingService := services.NewListingService(propertyRepo, ratingService, cacheProvider, cfg.Cache.RecommendedTTL)
	similarService := services.NewSimilarPropertiesService(propertyRepo, ratingService)
	propertyService := services.NewPropertyService(propertyRepo)

	// Initialize handlers and router
	propertyHandler := handlers.NewPropertyHandler(listingService, similarService, propertyService)
	router := routes.NewRouter(propertyHandler)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
