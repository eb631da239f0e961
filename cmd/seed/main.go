package main

import (
	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/config"
	"github.com/sahilchouksey/dept-events/database"
)

func main() {
	// Load environment variables
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

	if err := database.NewSeeder(store.GetDB(), env).SeedAll(); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	log.Info().Msg("Admin user is created from ADMIN_EMAIL and ADMIN_PASSWORD; if unset, creation is skipped")
}
