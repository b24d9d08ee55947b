package services

import (
	"errors"
	"testing"
	"time"

	"food-marketplace-api/models"

	"gorm.io/gorm"
)

func seedDeliveredOrder(t *testing.T, db *gorm.DB, customerID, restaurantID uint, deliveredAgo time.Duration) *models.Order {
	t.Helper()
	deliveredAt := time.Now().Add(-deliveredAgo)
	order := models.Order{
		CustomerID:    customerID,
		RestaurantID:  restaurantID,
		Status:        models.StatusDelivered,
		TotalPrice:    20.0,
		PaymentMethod: "card",
		DeliveredTime: &deliveredAt,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed delivered order: %v", err)
	}
	return &order
}

func TestRateLatestDeliveredWithinWindow(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	order := seedDeliveredOrder(t, db, customer.ID, r.ID, time.Hour)

	rating, err := RateLatestDelivered(db, "alice", 5, "excellent")
	if err != nil {
		t.Fatalf("RateLatestDelivered: %v", err)
	}
	if rating.OrderID != order.ID || rating.RestaurantID != r.ID {
		t.Errorf("rating bound to wrong order: %+v", rating)
	}

	// Second rating on the same order must conflict.
	if _, err := RateLatestDelivered(db, "alice", 4, "changed my mind"); !errors.Is(err, ErrConflict) {
		t.Fatalf("second rating: err = %v, want ErrConflict", err)
	}
}

func TestRateLatestDeliveredExpiredWindow(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	seedDeliveredOrder(t, db, customer.ID, r.ID, 49*time.Hour)

	if _, err := RateLatestDelivered(db, "alice", 5, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation (window expired)", err)
	}
	var ratings int64
	db.Model(&models.Rating{}).Count(&ratings)
	if ratings != 0 {
		t.Errorf("ratings = %d, want 0 after rejection", ratings)
	}
}

func TestRateLatestDeliveredNoDeliveredOrder(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)

	if _, err := RateLatestDelivered(db, "alice", 5, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRateLatestDeliveredInvalidScore(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	seedDeliveredOrder(t, db, customer.ID, r.ID, time.Hour)

	for _, score := range []int{0, 6, -1} {
		if _, err := RateLatestDelivered(db, "alice", score, ""); !errors.Is(err, ErrValidation) {
			t.Errorf("score %d: err = %v, want ErrValidation", score, err)
		}
	}
}

func TestRatingPicksMostRecentDelivery(t *testing.T) {
	db := newTestDB(t)
	customer := seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	seedDeliveredOrder(t, db, customer.ID, r.ID, 10*time.Hour)
	latest := seedDeliveredOrder(t, db, customer.ID, r.ID, time.Hour)

	rating, err := RateLatestDelivered(db, "alice", 4, "")
	if err != nil {
		t.Fatalf("RateLatestDelivered: %v", err)
	}
	if rating.OrderID != latest.ID {
		t.Errorf("rated order %d, want most recent %d", rating.OrderID, latest.ID)
	}
}
