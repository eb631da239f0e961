package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/dept-events/database"
	"github.com/sahilchouksey/dept-events/handlers"
	admin_handlers "github.com/sahilchouksey/dept-events/handlers/admin"
	auth_handlers "github.com/sahilchouksey/dept-events/handlers/auth"
	event_handlers "github.com/sahilchouksey/dept-events/handlers/event"
	registration_handlers "github.com/sahilchouksey/dept-events/handlers/registration"
	user_handlers "github.com/sahilchouksey/dept-events/handlers/user"
	"github.com/sahilchouksey/dept-events/metrics"
	"github.com/sahilchouksey/dept-events/model"
	"github.com/sahilchouksey/dept-events/services"
	"github.com/sahilchouksey/dept-events/utils/auth"
	"github.com/sahilchouksey/dept-events/utils/cache"
	"github.com/sahilchouksey/dept-events/utils/middleware"
	"github.com/sahilchouksey/dept-events/utils/response"
)

// Dependencies are the shared components the routes are built from.
// Cache is optional; without it login throttling is disabled.
type Dependencies struct {
	Store      database.Storage
	JWTManager *auth.JWTManager
	Cache      *cache.RedisCache
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	db := deps.Store.GetDB()

	// Services
	eventService := services.NewEventService(db)
	registrationService := services.NewRegistrationService(db)
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)

	// Brute force protection needs Redis
	var bruteForceProtection *middleware.BruteForceProtection
	var healthCache handlers.Pinger
	if deps.Cache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(deps.Cache)
		healthCache = deps.Cache
	}

	authMiddleware := middleware.NewAuthMiddleware(deps.JWTManager, db)
	protected := authMiddleware.Required()

	// Handlers
	healthHandler := handlers.NewHealthHandler(deps.Store, healthCache)
	authHandler := auth_handlers.NewAuthHandler(db, userService, deps.JWTManager, bruteForceProtection)
	userHandler := user_handlers.NewUserHandler(userService)
	eventHandler := event_handlers.NewEventHandler(eventService)
	registrationHandler := registration_handlers.NewRegistrationHandler(registrationService)
	auditHandler := admin_handlers.NewAuditHandler(auditService)

	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", authHandler.Signup)
	if bruteForceProtection != nil {
		authRoutes.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authRoutes.Post("/login", authHandler.Login)
	}
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", protected, authHandler.Logout)

	// User routes
	users := api.Group("/users")
	users.Get("/me", protected, userHandler.Me)
	users.Get("/", protected, authMiddleware.RequireRole(model.RoleAdmin), userHandler.List)
	users.Put("/role/:id", protected, authMiddleware.RequireRole(model.RoleAdmin), userHandler.UpdateRole)

	// Event routes; fixed paths before /:id
	events := api.Group("/events")
	events.Get("/", eventHandler.ListApproved)
	events.Post("/", protected, authMiddleware.RequireRole(model.RoleFaculty, model.RoleAdmin), eventHandler.Create)
	events.Get("/all", protected, authMiddleware.RequireRole(model.RoleFaculty, model.RoleAdmin, model.RoleHOD), eventHandler.ListAll)
	events.Put("/status/:id", protected, authMiddleware.RequireRole(model.RoleAdmin, model.RoleHOD), eventHandler.UpdateStatus)
	events.Get("/:id", eventHandler.Get)
	events.Put("/:id", protected, authMiddleware.RequireRole(model.RoleFaculty, model.RoleAdmin), eventHandler.Update)
	events.Delete("/:id", protected, authMiddleware.RequireRole(model.RoleFaculty, model.RoleAdmin), eventHandler.Delete)

	// Registration routes
	registrations := api.Group("/registrations")
	registrations.Get("/user", protected, registrationHandler.ListMine)
	registrations.Get("/event/:eventId", protected, authMiddleware.RequireRole(model.RoleFaculty, model.RoleAdmin), registrationHandler.ListForEvent)
	registrations.Put("/checkin/:id", protected, authMiddleware.RequireRole(model.RoleFaculty, model.RoleAdmin), registrationHandler.CheckIn)
	registrations.Post("/:eventId", protected, authMiddleware.RequireRole(model.RoleStudent), registrationHandler.Register)
	registrations.Delete("/:eventId", protected, authMiddleware.RequireRole(model.RoleStudent), registrationHandler.Unregister)

	// Admin routes
	admin := api.Group("/admin", protected, authMiddleware.RequireRole(model.RoleAdmin))
	admin.Get("/audit-logs", auditHandler.ListAuditLogs)

	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route not found")
	})
}
