package handlers

import (
	"net/http"
	"strconv"

	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/services"

	"github.com/gin-gonic/gin"
)

// GetMyDeliveries returns all orders assigned to the logged-in deliverer.
func GetMyDeliveries(c *gin.Context) {
	delivererID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items.FoodItem").Preload("Restaurant").Preload("Customer").
		Where("deliverer_id = ?", delivererID).
		Order("updated_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, false
	}
	return uint(id), true
}

// DeliverOrder transitions assigned → delivered and stamps delivered_time.
func DeliverOrder(c *gin.Context) {
	delivererID := middleware.GetUserID(c)
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := services.MarkDelivered(config.DB, orderID, delivererID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Order delivered",
		"order_id":       order.ID,
		"status":         order.Status,
		"delivered_time": order.DeliveredTime,
	})
}

// ResetDelivery puts an order back to assigned and clears delivered_time.
func ResetDelivery(c *gin.Context) {
	delivererID := middleware.GetUserID(c)
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := services.ResetDelivery(config.DB, orderID, delivererID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Delivery reset",
		"order_id": order.ID,
		"status":   order.Status,
	})
}
