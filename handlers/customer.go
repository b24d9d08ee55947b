package handlers

import (
	"net/http"
	"time"

	"food-marketplace-api/config"
	"food-marketplace-api/metrics"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/pkg/logger"
	"food-marketplace-api/services"

	"github.com/gin-gonic/gin"
)

// GetNearbyRestaurants lists active restaurants whose delivery radius
// covers the customer, with active food items and popular flags.
func GetNearbyRestaurants(c *gin.Context) {
	username := middleware.GetUsername(c)
	listings, err := services.NearbyRestaurants(config.DB, username)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(listings), "restaurants": listings})
}

type PlaceOrderRequest struct {
	Cart          []services.CartLine `json:"cart" binding:"required,min=1"`
	PaymentMethod string              `json:"payment_method" binding:"required"`
	DeliveryTime  *time.Time          `json:"delivery_time"`
}

// PlaceOrder creates an order from a single-restaurant cart. The
// confirmation email is best-effort: a failure is logged and reported in
// the response but never fails the order.
func PlaceOrder(c *gin.Context) {
	username := middleware.GetUsername(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := services.CreateOrder(config.DB, services.CreateOrderInput{
		CustomerUsername: username,
		Cart:             req.Cart,
		PaymentMethod:    req.PaymentMethod,
		DeliveryTime:     req.DeliveryTime,
	})
	if err != nil {
		fail(c, err)
		return
	}

	confirmationSent := sendOrderConfirmation(username, order)

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Order placed successfully",
		"order_id":          order.ID,
		"total_price":       order.TotalPrice,
		"status":            order.Status,
		"confirmation_sent": confirmationSent,
	})
}

func sendOrderConfirmation(username string, order *models.Order) bool {
	var customer models.User
	if err := config.DB.Where("username = ?", username).First(&customer).Error; err != nil {
		return false
	}
	body := "Hello " + customer.FirstName + ",\n\n" +
		"Your order has been received and is waiting for the restaurant's approval.\n"
	if err := Mail.Send([]string{customer.Email}, "Order confirmation", body); err != nil {
		metrics.EmailsTotal.WithLabelValues("confirmation", "failed").Inc()
		lg := logger.Get()
		lg.Error().Err(err).Uint("order_id", order.ID).Msg("confirmation email failed")
		return false
	}
	metrics.EmailsTotal.WithLabelValues("confirmation", "sent").Inc()
	return true
}

// GetMyOrders returns all orders for the logged-in customer.
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items.FoodItem").Preload("Restaurant").Preload("Deliverer").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

type RateOrderRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RateOrder rates the customer's most recently delivered order.
func RateOrder(c *gin.Context) {
	username := middleware.GetUsername(c)

	var req RateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := services.RateLatestDelivered(config.DB, username, req.Rating, req.Comment)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Rating recorded", "rating": rating})
}
