package handlers

import (
	"net/http"

	"food-marketplace-api/config"
	"food-marketplace-api/models"
	"food-marketplace-api/report"
	"food-marketplace-api/services"

	"github.com/gin-gonic/gin"
)

// Reports is the report scheduler, set in main so the test endpoint can
// trigger an on-demand run.
var Reports *report.Scheduler

type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type CreateStaffRequest struct {
	Username     string `json:"username" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
}

// CreateAdmin registers a platform admin.
func CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, ok := createUser(c, models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleAdmin,
	}, req.Password)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin created", "user": user})
}

// CreateRestaurantAdmin registers an admin for an existing restaurant.
func CreateRestaurantAdmin(c *gin.Context) {
	createStaff(c, models.RoleRestaurantAdmin)
}

// CreateDeliverer registers a deliverer for an existing restaurant.
func CreateDeliverer(c *gin.Context) {
	createStaff(c, models.RoleDeliverer)
}

func createStaff(c *gin.Context, role models.UserRole) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	user, ok := createUser(c, models.User{
		Username:     req.Username,
		Email:        req.Email,
		Role:         role,
		RestaurantID: &restaurant.ID,
	}, req.Password)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": string(role) + " created", "user": user})
}

// ListUsers returns all users, optionally filtered by role.
func ListUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// DeleteUser removes a restaurant admin or deliverer account.
func DeleteUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role != models.RoleRestaurantAdmin && user.Role != models.RoleDeliverer {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Only restaurant admins and deliverers can be deleted"})
		return
	}
	config.DB.Where("username = ?", user.Username).Delete(&models.ActiveSession{})
	config.DB.Delete(&user)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// AdminGetAllOrders returns all orders with full detail.
func AdminGetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := config.DB.Preload("Items.FoodItem").
		Preload("Customer").Preload("Restaurant").Preload("Deliverer")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if restaurantID := c.Query("restaurant_id"); restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}

	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	var totalRevenue float64
	for _, o := range orders {
		summary[string(o.Status)]++
		if o.Status == models.StatusDelivered {
			totalRevenue += o.TotalPrice
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": totalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

// AdminForceOrderStatus lets admin override any order state (emergency use)
func AdminForceOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	prevStatus := order.Status

	updated, err := services.ForceStatus(config.DB, order.ID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status force-updated by admin",
		"order_id":        updated.ID,
		"previous_status": prevStatus,
		"new_status":      updated.Status,
	})
}

// SendTestReport runs the monthly report generation and send on demand,
// bypassing the schedule.
func SendTestReport(c *gin.Context) {
	if Reports == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report scheduler not configured"})
		return
	}
	if err := Reports.RunOnce(); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Report run failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reports generated and sent"})
}
