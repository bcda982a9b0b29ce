package routes

import (
	"time"

	"osa-partnership/internal/adapters/http/handlers"
	"osa-partnership/internal/adapters/http/middleware"
	"osa-partnership/internal/adapters/persistence/repositories"
	"osa-partnership/internal/config"
	"osa-partnership/internal/core/domain"
	"osa-partnership/internal/core/services"
	"osa-partnership/internal/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Options tune the route setup
type Options struct {
	// Ping reports database health; nil uses the shared connection
	Ping func() error
	// DisableRateLimit turns the request limiters off (tests)
	DisableRateLimit bool
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, logos *storage.LogoStore, opts Options) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	deptRepo := repositories.NewDepartmentRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	tx := repositories.NewTransactor(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, profileRepo, deptRepo, refreshTokenRepo, tx, cfg)
	userService := services.NewUserService(userRepo, profileRepo, deptRepo, refreshTokenRepo, tx, logos)
	departmentService := services.NewDepartmentService(deptRepo, userRepo, logos)
	dashboardService := services.NewDashboardService(deptRepo, userRepo, departmentService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, opts.Ping)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	panelHandler := handlers.NewPanelHandler(dashboardService, departmentService, userService)

	requireAuth := middleware.AuthMiddleware(cfg, authService)
	optionalAuth := middleware.OptionalAuth(cfg, authService)

	authLimit := passThrough
	strictLimit := passThrough
	if !opts.DisableRateLimit {
		authLimit = middleware.AuthRateLimiter(10)
		strictLimit = middleware.StrictRateLimiter()
	}

	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded logos
	app.Use("/media", middleware.MediaHeaders(), middleware.PublicCacheHeaders(24*time.Hour))
	app.Static("/media", cfg.Media.Root)

	// The root also serves the login entry point
	app.Get("/", optionalAuth, authHandler.LoginPage)
	app.Post("/", authLimit, authHandler.Login)

	web := app.Group(handlers.WebPrefix, middleware.NoCacheHeaders())
	setupAuthRoutes(web, authHandler, requireAuth, optionalAuth, authLimit)
	setupPanelRoutes(web, panelHandler, requireAuth, strictLimit)

	api := app.Group("/api", middleware.NoCacheHeaders())
	api.Get("/", healthHandler.APIInfo)
	setupUserRoutes(api.Group("/users", requireAuth), userHandler, strictLimit)
	setupDepartmentRoutes(api.Group("/departments", requireAuth), departmentHandler)
}

func passThrough(c *fiber.Ctx) error {
	return c.Next()
}

// setupAuthRoutes configures login, signup and session routes
func setupAuthRoutes(
	router fiber.Router,
	handler *handlers.AuthHandler,
	requireAuth, optionalAuth, authLimit fiber.Handler,
) {
	router.Get("/", optionalAuth, handler.LoginPage)
	router.Post("/", authLimit, handler.Login)
	router.Post("/signup/", authLimit, handler.Signup)
	router.Post("/refresh/", authLimit, handler.RefreshToken)
	router.Post("/logout/", handler.Logout)
	router.Post("/logout-all/", requireAuth, handler.LogoutAll)
}

// setupPanelRoutes configures the landing pages and department pages
func setupPanelRoutes(router fiber.Router, handler *handlers.PanelHandler, requireAuth, strictLimit fiber.Handler) {
	router.Get("/dashboard/", requireAuth, handler.Dashboard)

	router.Get("/department/:id/", requireAuth, handler.DepartmentDetail)
	router.Post("/department/:id/edit/", requireAuth, handler.EditDepartment)

	admin := router.Group("/admin-panel", requireAuth)
	admin.Get("/", handler.AdminPanel)
	admin.Post("/", middleware.RequireAction(domain.ActionReviewRemarks), handler.ReviewRemarks)
	admin.Post("/user/:id/delete/", strictLimit, handler.DeleteUser)

	owner := router.Group("/owner-panel", requireAuth)
	owner.Get("/", handler.OwnerPanel)
	owner.Post("/department/add/", handler.AddDepartment)
	owner.Post("/department/:id/delete/", handler.DeleteDepartment)
}

// setupUserRoutes configures /api/users
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, strictLimit fiber.Handler) {
	router.Get("/", handler.ListUsers)
	router.Post("/", handler.CreateUser)
	router.Get("/me/", handler.Me)
	router.Post("/me/password/", strictLimit, handler.ChangePassword)
	router.Get("/:id/", handler.GetUser)
	router.Put("/:id/", handler.UpdateUser)
	router.Patch("/:id/", handler.UpdateUser)
	router.Delete("/:id/", strictLimit, handler.DeleteUser)
}

// setupDepartmentRoutes configures /api/departments
func setupDepartmentRoutes(router fiber.Router, handler *handlers.DepartmentHandler) {
	router.Get("/", handler.List)
	router.Post("/", handler.Create)
	router.Get("/:id/", handler.Get)
	router.Put("/:id/", handler.Replace)
	router.Patch("/:id/", handler.Patch)
	router.Delete("/:id/", handler.Delete)
}
