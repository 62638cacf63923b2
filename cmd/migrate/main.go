package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/config"
	"foodgram-backend/pkg/logger"
)

// Usage: migrate [-dir migrations] up|down|status
func main() {
	dir := flag.String("dir", "migrations", "directory containing *.up.sql / *.down.sql")
	flag.Parse()

	envErr := godotenv.Load()
	logger.Init(os.Getenv("APP_ENV"), "info")
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load database config")
	}

	migrations, err := loadMigrations(*dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load migrations")
	}

	db, err := sql.Open("postgres", dbConfig.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(describe(err)).Msg("Database unreachable")
	}

	m := NewMigrator(db, migrations)
	switch command {
	case "up":
		n, err := m.Up(ctx)
		if err != nil {
			log.Fatal().Err(err).Int("applied", n).Msg("Migration failed")
		}
		log.Info().Int("applied", n).Msg("Database is up to date")

	case "down":
		rolled, err := m.Down(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Rollback failed")
		}
		if !rolled {
			log.Info().Msg("Nothing to roll back")
		}

	case "status":
		done, err := m.Status(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read migration status")
		}
		for _, mig := range migrations {
			log.Info().
				Int64("version", mig.Version).
				Str("name", mig.Name).
				Bool("applied", done[mig.Version]).
				Msg("Migration")
		}

	default:
		log.Fatal().Str("command", command).Msg("Unknown command, expected up|down|status")
	}
}
