package routes

import (
	"food-marketplace-api/handlers"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", handlers.RegisterCustomer)
		public.POST("/auth/login", handlers.Login)
		public.POST("/auth/validate", handlers.ValidateToken)

		// Password reset
		public.POST("/auth/password-reset/request", handlers.RequestPasswordReset)
		public.POST("/auth/password-reset/verify", handlers.VerifyResetToken)
		public.POST("/auth/password-reset/confirm", handlers.ResetPassword)

		// Application forms (email only, nothing persisted)
		public.POST("/applications/partner", handlers.ApplyPartner)
		public.POST("/applications/deliverer", handlers.ApplyDeliverer)

		// Browsing without an account
		public.GET("/restaurants", handlers.ListRestaurants)
		public.GET("/restaurants/:id", handlers.GetRestaurant)

		// State machine info
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.GET("/role", handlers.GetRole)
		auth.POST("/auth/logout", handlers.Logout)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.GET("/restaurants", handlers.GetNearbyRestaurants)
		customer.POST("/orders", handlers.PlaceOrder)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.POST("/ratings", handlers.RateOrder)
	}

	// ── Restaurant admin routes ────────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleRestaurantAdmin))
	{
		// Catalog management
		restaurant.POST("/food-items", handlers.AddFoodItem)
		restaurant.GET("/food-items", handlers.ListFoodItems)
		restaurant.PUT("/food-items/:itemId", handlers.UpdateFoodItem)
		restaurant.DELETE("/food-items/:itemId", handlers.ArchiveFoodItem)
		restaurant.POST("/menus", handlers.CreateMenu)
		restaurant.GET("/menus", handlers.ListMenus)
		restaurant.PUT("/menus/:menuId/toggle", handlers.ToggleMenu)

		// Order management
		restaurant.GET("/orders", handlers.GetRestaurantOrders)
		restaurant.PUT("/orders/:id/approve", handlers.ApproveOrder)
		restaurant.PUT("/orders/:id/assign", handlers.AssignOrder)
		restaurant.GET("/deliverers/free", handlers.GetFreeDeliverers)

		// Notifications
		restaurant.GET("/notifications", handlers.GetNotifications)
		restaurant.PUT("/notifications/read", handlers.MarkNotificationsRead)
	}

	// ── Deliverer routes ───────────────────────────────────────────
	deliverer := r.Group("/api/deliverer")
	deliverer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDeliverer))
	{
		deliverer.GET("/orders", handlers.GetMyDeliveries)
		deliverer.PUT("/orders/:id/deliver", handlers.DeliverOrder)
		deliverer.PUT("/orders/:id/reset", handlers.ResetDelivery)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		// Accounts
		admin.POST("/admins", handlers.CreateAdmin)
		admin.POST("/restaurant-admins", handlers.CreateRestaurantAdmin)
		admin.POST("/deliverers", handlers.CreateDeliverer)
		admin.GET("/users", handlers.ListUsers)
		admin.DELETE("/users/:id", handlers.DeleteUser)

		// Catalog
		admin.POST("/restaurants", handlers.CreateRestaurant)
		admin.PUT("/restaurants/:id", handlers.UpdateRestaurant)
		admin.DELETE("/restaurants/:id", handlers.ArchiveRestaurant)
		admin.POST("/food-types", handlers.CreateFoodType)
		admin.GET("/food-types", handlers.ListFoodTypes)
		admin.DELETE("/food-types/:id", handlers.DeleteFoodType)
		admin.POST("/restaurant-types", handlers.CreateRestaurantType)
		admin.GET("/restaurant-types", handlers.ListRestaurantTypes)
		admin.DELETE("/restaurant-types/:id", handlers.DeleteRestaurantType)

		// Orders
		admin.GET("/orders", handlers.AdminGetAllOrders)
		admin.PUT("/orders/:id/status", handlers.AdminForceOrderStatus)

		// Reports
		admin.POST("/reports/test", handlers.SendTestReport)
	}
}
