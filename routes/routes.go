package routes

import (
	"time"

	"trattoria-backend/firebase"
	"trattoria-backend/handlers"
	"trattoria-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, storage firebase.StorageClient) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	orderHandler := &handlers.OrderHandler{DB: db}
	scheduleHandler := &handlers.ScheduleHandler{DB: db}
	customerHandler := &handlers.CustomerHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db, Storage: storage}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	loyaltyHandler := &handlers.LoyaltyHandler{DB: db, Storage: storage}
	dashboardHandler := &handlers.DashboardHandler{DB: db}

	// Brute-force protection on the login endpoint.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/auth/login", loginLimiter.Middleware(), authHandler.Login)

		// Public menu
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.GET("/categories", categoryHandler.GetCategories)
		api.GET("/categories/:id", categoryHandler.GetCategory)

		// Running campaigns
		api.GET("/campaigns", loyaltyHandler.GetActiveCampaigns)
	}

	// Protected routes (any authenticated staff member)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		// Orders
		protected.POST("/orders", orderHandler.CreateOrder)
		protected.GET("/orders", orderHandler.GetOrders)
		protected.GET("/orders/stats/summary", orderHandler.GetOrderStats)
		protected.GET("/orders/:id", orderHandler.GetOrder)
		protected.PATCH("/orders/:id", orderHandler.UpdateOrder)
		protected.DELETE("/orders/:id", orderHandler.DeleteOrder)
		protected.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)

		// Weekly schedule and holidays
		protected.GET("/schedule", scheduleHandler.GetSchedule)
		protected.GET("/schedule/:weekday", scheduleHandler.GetScheduleDay)
		protected.PUT("/schedule/:weekday", scheduleHandler.UpdateScheduleDay)
		protected.POST("/schedule/:weekday/copy-to-all", scheduleHandler.CopyToAll)
		protected.GET("/holidays", scheduleHandler.GetHolidays)
		protected.POST("/holidays", scheduleHandler.CreateHoliday)
		protected.DELETE("/holidays/:date", scheduleHandler.DeleteHoliday)

		// Customers
		protected.POST("/customers", customerHandler.CreateCustomer)
		protected.GET("/customers", customerHandler.GetCustomers)
		protected.GET("/customers/:id", customerHandler.GetCustomer)
		protected.PATCH("/customers/:id", customerHandler.UpdateCustomer)
		protected.DELETE("/customers/:id", customerHandler.DeleteCustomer)
		protected.GET("/customers/:id/loyalty", customerHandler.GetCustomerLoyalty)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Staff account management
		admin.POST("/auth/register", authHandler.Register)

		// Menu management
		admin.POST("/products", productHandler.CreateProduct)
		admin.PATCH("/products/:id", productHandler.UpdateProduct)
		admin.POST("/products/:id/image", productHandler.UploadProductImage)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PATCH("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// Loyalty program and campaigns
		admin.GET("/loyalty-program", loyaltyHandler.GetProgram)
		admin.PUT("/loyalty-program", loyaltyHandler.UpdateProgram)
		admin.GET("/campaigns", loyaltyHandler.GetAllCampaigns)
		admin.GET("/campaigns/:id", loyaltyHandler.GetCampaign)
		admin.POST("/campaigns", loyaltyHandler.CreateCampaign)
		admin.PUT("/campaigns/:id", loyaltyHandler.UpdateCampaign)
		admin.DELETE("/campaigns/:id", loyaltyHandler.DeleteCampaign)

		// Dashboard
		admin.GET("/dashboard", dashboardHandler.GetDashboard)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
