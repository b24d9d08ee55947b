package services

import (
	"fmt"
	"time"

	"food-marketplace-api/models"

	"gorm.io/gorm"
)

// ratingWindow is how long after delivery a customer may still rate.
const ratingWindow = 48 * time.Hour

// RateLatestDelivered records a rating for the customer's most recently
// delivered order. Rejected when no delivered order exists, the 48-hour
// window has passed, or the order was already rated.
func RateLatestDelivered(db *gorm.DB, customerUsername string, rating int, comment string) (*models.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	var customer models.User
	if err := db.Where("username = ? AND role = ?", customerUsername, models.RoleCustomer).
		First(&customer).Error; err != nil {
		return nil, fmt.Errorf("%w: customer %q", ErrNotFound, customerUsername)
	}

	var order models.Order
	if err := db.Where("customer_id = ? AND status = ?", customer.ID, models.StatusDelivered).
		Order("delivered_time DESC").
		First(&order).Error; err != nil {
		return nil, fmt.Errorf("%w: no delivered order to rate", ErrNotFound)
	}
	if order.DeliveredTime == nil || time.Since(*order.DeliveredTime) > ratingWindow {
		return nil, fmt.Errorf("%w: rating window of 48 hours has expired", ErrValidation)
	}

	var existing int64
	if err := db.Model(&models.Rating{}).
		Where("customer_id = ? AND order_id = ?", customer.ID, order.ID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: order already rated", ErrConflict)
	}

	r := models.Rating{
		CustomerID:   customer.ID,
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID,
		Rating:       rating,
		Comment:      comment,
	}
	if err := db.Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}
