package handlers

import (
	"net/http"

	"food-marketplace-api/config"
	"food-marketplace-api/models"
	"food-marketplace-api/services"

	"github.com/gin-gonic/gin"
)

// GetRestaurantOrders returns all orders for the caller's restaurant.
func GetRestaurantOrders(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}

	var orders []models.Order
	query := config.DB.Preload("Items.FoodItem").Preload("Customer").Preload("Deliverer").
		Where("restaurant_id = ?", restaurant.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant":    restaurant.Name,
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

// ApproveOrder transitions pending → approved.
func ApproveOrder(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	updated, err := services.ApproveOrder(config.DB, order.ID, restaurant.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order approved",
		"order_id": updated.ID,
		"status":   updated.Status,
	})
}

type AssignOrderRequest struct {
	DelivererID uint `json:"deliverer_id" binding:"required"`
}

// AssignOrder attaches a deliverer and transitions approved → assigned.
func AssignOrder(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	var req AssignOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	updated, err := services.AssignDeliverer(config.DB, order.ID, req.DelivererID, restaurant.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Deliverer assigned",
		"order_id":     updated.ID,
		"status":       updated.Status,
		"deliverer_id": req.DelivererID,
	})
}

// GetFreeDeliverers lists the restaurant's deliverers that are logged in
// and have no undelivered orders.
func GetFreeDeliverers(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	deliverers, err := services.FreeDeliverers(config.DB, restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(deliverers))
	for _, d := range deliverers {
		out = append(out, gin.H{"id": d.ID, "username": d.Username})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "deliverers": out})
}

// GetNotifications returns the restaurant's notifications, newest first,
// with the unread count.
func GetNotifications(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	notifications, unread, err := services.ListNotifications(config.DB, restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"unread_count":  unread,
		"count":         len(notifications),
		"notifications": notifications,
	})
}

// MarkNotificationsRead bulk-marks the restaurant's notifications as read.
func MarkNotificationsRead(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	updated, err := services.MarkNotificationsRead(config.DB, restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked read", "updated": updated})
}
