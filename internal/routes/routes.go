package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/config"
	"github.com/example/bistro/internal/handlers"
	"github.com/example/bistro/internal/httputil"
	"github.com/example/bistro/internal/middleware"
	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/services"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB         *gorm.DB
	Config     *config.Config
	Dispatcher *services.Dispatcher
	Mailer     services.Mailer
}

// NewApp builds the fiber app with the shared error handler and middleware.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Bistro Backend",
		ErrorHandler: httputil.ErrorHandler(httputil.DomainErrors()),
		// Leave room for the multipart envelope around a maximum size image.
		BodyLimit: int(cfg.UploadMaxBytes) + 1<<20,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	return app
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, deps Deps) {
	db, cfg := deps.DB, deps.Config

	identity := services.NewIdentityService(db, services.IdentityOptions{
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenExpires,
		ResetTokenTTL: cfg.ResetTokenTTL,
		ClientURL:     cfg.ClientURL,
	}, deps.Mailer)
	uploads := services.NewUploadService(cfg.UploadDir, cfg.PublicURL, cfg.UploadMaxBytes)

	authHandler := handlers.NewAuthHandler(identity)
	profileHandler := handlers.NewProfileHandler(services.NewAddressService(db))
	menuHandler := handlers.NewMenuHandler(services.NewCatalogService(db))
	orderHandler := handlers.NewOrderHandler(services.NewOrderService(db, deps.Dispatcher))
	adminHandler := handlers.NewAdminHandler(db, services.NewReportService(db))
	bookingHandler := handlers.NewBookingHandler(services.NewBookingService(db, deps.Dispatcher))
	settingsHandler := handlers.NewSettingsHandler(db)
	uploadHandler := handlers.NewUploadHandler(uploads)

	authenticated := middleware.AuthMiddleware(identity)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Static(services.UploadsPrefix, uploads.Dir())

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Put("/reset-password/:token", authHandler.ResetPassword)
	auth.Get("/me", authenticated, authHandler.Me)
	auth.Put("/profile", authenticated, authHandler.UpdateProfile)
	auth.Put("/update-password", authenticated, authHandler.UpdatePassword)
	auth.Get("/addresses", authenticated, profileHandler.ListAddresses)
	auth.Post("/addresses", authenticated, profileHandler.CreateAddress)
	auth.Put("/addresses/:id", authenticated, profileHandler.UpdateAddress)
	auth.Delete("/addresses/:id", authenticated, profileHandler.DeleteAddress)

	// Menu
	menu := api.Group("/menu")
	menu.Get("/", menuHandler.ListMenu)
	menu.Get("/categories", menuHandler.ListCategories)
	menu.Get("/:id", menuHandler.GetMenuItem)
	menu.Post("/:id/reviews", authenticated, menuHandler.AddReview)
	menu.Post("/", authenticated, adminOnly, menuHandler.CreateMenuItem)
	menu.Put("/:id", authenticated, adminOnly, menuHandler.UpdateMenuItem)
	menu.Delete("/:id", authenticated, adminOnly, menuHandler.DeleteMenuItem)
	menu.Patch("/:id/availability", authenticated, adminOnly, menuHandler.ToggleAvailability)

	// Orders
	orders := api.Group("/orders", authenticated)
	orders.Get("/", orderHandler.ListOrders)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Patch("/:id/status", adminOnly, orderHandler.UpdateStatus)
	orders.Delete("/:id", orderHandler.CancelOrder)

	// Admin dashboard
	admin := api.Group("/admin", authenticated, adminOnly)
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Patch("/users/:id/block", adminHandler.ToggleBlock)

	// Bookings
	bookings := api.Group("/bookings")
	bookings.Post("/", bookingHandler.CreateBooking)
	bookings.Get("/", authenticated, adminOnly, bookingHandler.ListBookings)
	bookings.Patch("/:id/status", authenticated, adminOnly, bookingHandler.UpdateStatus)

	// Settings
	settings := api.Group("/settings")
	settings.Get("/", settingsHandler.GetSettings)
	settings.Put("/", authenticated, adminOnly, settingsHandler.UpdateSettings)

	api.Post("/upload", authenticated, uploadHandler.Upload)
}
