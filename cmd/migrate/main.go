package main

import (
	"fmt"
	"os"

	"github.com/Rrens/coworking-reservation/internal/config"
	"github.com/Rrens/coworking-reservation/internal/logging"
	"github.com/Rrens/coworking-reservation/internal/repository/mongodb"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Usage: migrate [up|down]
func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if _, err := logging.Setup(config.LoggingConfig{Level: "info"}, cfg.Server.Env); err != nil {
		panic(err)
	}

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	log.Info().
		Str("database", cfg.Database.Database).
		Str("source", cfg.Database.MigrationsPath).
		Str("direction", direction).
		Msg("Running index migrations")

	switch direction {
	case "up":
		err = mongodb.RunMigrations(cfg.Database.MigrateURL(), cfg.Database.MigrationsPath)
	case "down":
		err = mongodb.RollbackMigrations(cfg.Database.MigrateURL(), cfg.Database.MigrationsPath)
	default:
		err = fmt.Errorf("unknown direction %q (want up or down)", direction)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
