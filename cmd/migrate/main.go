// Command migrate creates the tables and installs the PostgreSQL constraints
// without starting the server.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/config"
	"github.com/sahilchouksey/dept-events/database"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load .env")
	}

	env, err := config.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	config.NewLogger(env)

	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pg, err := database.StartPostgres(env)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open constraint connection")
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := pg.ApplyConstraints(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply constraints")
	}

	if err := store.HealthCheck(); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	log.Info().Msg("All migrations completed successfully")
}
