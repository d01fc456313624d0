package routes

import (
	"geomaqui-os/internal/adapters/http/handlers"
	"geomaqui-os/internal/adapters/http/middleware"
	"geomaqui-os/internal/adapters/persistence/repositories"
	"geomaqui-os/internal/config"
	"geomaqui-os/internal/core/services"
	"geomaqui-os/internal/core/state"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, store *state.Store, cfg *config.Config) {
	// Initialize repositories
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Initialize services
	authService := services.NewAuthService(store, refreshTokenRepo, cfg)
	userService := services.NewUserService(store, refreshTokenRepo)
	scheduleService := services.NewScheduleService(store)
	financeService := services.NewFinanceService(store, cfg.Business.CommissionRate)
	notificationService := services.NewNotificationService(store)
	dashboardService := services.NewDashboardService(store)
	receiptService := services.NewReceiptService(store, cfg.Business)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, receiptService)
	financeHandler := handlers.NewFinanceHandler(financeService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// User management routes
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Get("/technicians", userHandler.ListTechnicians)
	userRoutes.Post("/", middleware.AdminOnly(), userHandler.CreateUser)
	userRoutes.Get("/", middleware.AdminOnly(), userHandler.ListUsers)
	userRoutes.Get("/:id", middleware.AdminOnly(), userHandler.GetUser)
	userRoutes.Delete("/:id", middleware.AdminOnly(), userHandler.DeleteUser)

	// Schedule routes
	scheduleRoutes := apiV1.Group("/schedules")
	scheduleRoutes.Use(middleware.AuthMiddleware(cfg))
	scheduleRoutes.Post("/", middleware.AttendantOrAdmin(), scheduleHandler.Create)
	scheduleRoutes.Get("/", scheduleHandler.List)
	scheduleRoutes.Get("/:id", scheduleHandler.Get)
	scheduleRoutes.Post("/:id/accept", middleware.TechnicianOrAdmin(), scheduleHandler.Accept)
	scheduleRoutes.Post("/:id/conclude", middleware.TechnicianOrAdmin(), scheduleHandler.Conclude)
	scheduleRoutes.Post("/:id/reschedule", middleware.TechnicianOrAdmin(), scheduleHandler.Reschedule)
	scheduleRoutes.Post("/:id/transfer", middleware.TechnicianOrAdmin(), scheduleHandler.Transfer)
	scheduleRoutes.Get("/:id/document", scheduleHandler.Document)
	scheduleRoutes.Get("/:id/receipt", scheduleHandler.Receipt)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/", dashboardHandler.Stats)

	// Finance routes
	financeRoutes := apiV1.Group("/finance")
	financeRoutes.Use(middleware.AuthMiddleware(cfg))
	financeRoutes.Get("/summary", financeHandler.Summary)
	financeRoutes.Get("/technicians/:id", middleware.AdminOnly(), financeHandler.TechnicianSummary)
	financeRoutes.Post("/sales", middleware.AttendantOrAdmin(), financeHandler.RecordSale)
	financeRoutes.Get("/sales", middleware.AdminOnly(), financeHandler.ListSales)
	financeRoutes.Post("/expenses", middleware.AdminOnly(), financeHandler.RecordExpense)
	financeRoutes.Get("/expenses", middleware.AdminOnly(), financeHandler.ListExpenses)
	financeRoutes.Post("/payments", middleware.AdminOnly(), financeHandler.RecordPayment)
	financeRoutes.Get("/payments", middleware.AdminOnly(), financeHandler.ListPayments)

	// Notification routes
	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware(cfg))
	notificationRoutes.Get("/", notificationHandler.List)
	notificationRoutes.Post("/read-all", notificationHandler.MarkAllRead)
	notificationRoutes.Post("/:id/read", notificationHandler.MarkRead)
}
