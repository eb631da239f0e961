package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/api"
	"github.com/sahilchouksey/dept-events/config"
	"github.com/sahilchouksey/dept-events/database"
	"github.com/sahilchouksey/dept-events/router"
	"github.com/sahilchouksey/dept-events/services/cron"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"github.com/sahilchouksey/dept-events/utils/cache"
	"github.com/sahilchouksey/dept-events/utils/middleware"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	config.NewLogger(getEnv)

	// Initialize GORM database connection
	store, err := database.StartGORM(getEnv)
	if err != nil {
		log.Error().Msg("Check whether Postgres is running and the DB_* variables are set")
		return err
	}

	if err := store.Init(); err != nil {
		log.Error().Err(err).Msg("Failed to initialize database tables")
		return err
	}

	applyConstraints(getEnv)

	// Redis is optional; login throttling is off without it
	var redisCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, brute force protection disabled")
			redisCache = nil
		}
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(store.GetDB(), cron.Config{
			ReconcileSchedule: getEnv.RECONCILE_SCHEDULE,
		})
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warn().Err(err).Msg("Failed to start cron jobs")
			cronManager = nil
		}
	}

	// Defer closing DB, Redis and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    getEnv.ALLOWED_ORIGINS,
		RateLimitRequests: getEnv.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   time.Minute,
		AccessLog:         true,
	})

	router.SetupRoutes(app, router.Dependencies{
		Store: store,
		JWTManager: auth.NewJWTManager(auth.JWTConfig{
			Secret:        getEnv.JWT_SECRET,
			Expiry:        getEnv.JWT_EXPIRY,
			RefreshExpiry: getEnv.JWT_REFRESH_EXPIRY,
			Issuer:        getEnv.JWT_ISSUER,
		}),
		Cache: redisCache,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		sig := <-quit
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
		if err := server.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	return server.Run()
}

// applyConstraints installs the Postgres-only CHECK constraints and indexes
// that AutoMigrate cannot express. Failure is logged, not fatal.
func applyConstraints(env *config.EnviornmentVariable) {
	pg, err := database.StartPostgres(env)
	if err != nil {
		log.Warn().Err(err).Msg("Skipping database constraints")
		return
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pg.ApplyConstraints(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to apply database constraints")
		return
	}
	log.Info().Msg("Database constraints applied")
}
