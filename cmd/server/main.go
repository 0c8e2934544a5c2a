package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/coworking-reservation/internal/api"
	"github.com/Rrens/coworking-reservation/internal/config"
	"github.com/Rrens/coworking-reservation/internal/logging"
	"github.com/Rrens/coworking-reservation/internal/repository/mongodb"
	"github.com/Rrens/coworking-reservation/internal/repository/redis"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	envLoaded := ""
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			envLoaded = p
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logCloser, err := logging.Setup(cfg.Logging, cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if envLoaded != "" {
		log.Info().Str("path", envLoaded).Msg("Loaded .env")
	} else {
		log.Warn().Msg(".env file not found in any standard location")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("env", cfg.Server.Env).
		Msg("Starting coworking reservation API server")

	// Initialize database
	db, err := mongodb.NewDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close(context.Background())

	if cfg.Database.AutoMigrate {
		if err := mongodb.RunMigrations(cfg.Database.MigrateURL(), cfg.Database.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize router
	router, err := api.NewRouter(cfg, api.NewServices(cfg, db, redisClient))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
