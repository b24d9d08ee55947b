package services

import (
	"errors"
	"testing"
	"time"

	"food-marketplace-api/models"
)

func TestCreateOrderComputesTotal(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	margherita := seedFoodItem(t, db, r.ID, "Margherita", 10.0)
	cola := seedFoodItem(t, db, r.ID, "Cola", 2.5)

	order, err := CreateOrder(db, CreateOrderInput{
		CustomerUsername: "alice",
		Cart: []CartLine{
			{FoodItemID: margherita.ID, Quantity: 2},
			{FoodItemID: cola.ID, Quantity: 3},
		},
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.TotalPrice != 27.5 {
		t.Errorf("total = %v, want 27.5", order.TotalPrice)
	}
	if order.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}

	var notifications int64
	db.Model(&models.Notification{}).Where("restaurant_id = ?", r.ID).Count(&notifications)
	if notifications != 1 {
		t.Errorf("notifications = %d, want exactly 1", notifications)
	}
}

func TestCreateOrderUsesDiscountPrice(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	item := seedFoodItem(t, db, r.ID, "Margherita", 10.0)

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	discount := 8.0
	db.Model(item).Updates(map[string]interface{}{
		"discount_start": start,
		"discount_end":   end,
		"discount_price": discount,
	})

	order, err := CreateOrder(db, CreateOrderInput{
		CustomerUsername: "alice",
		Cart:             []CartLine{{FoodItemID: item.ID, Quantity: 2}},
		PaymentMethod:    "cash",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.TotalPrice != 16.0 {
		t.Errorf("total = %v, want 16.0 (discounted)", order.TotalPrice)
	}
}

func TestCreateOrderRejectsMultiRestaurantCart(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)
	r1 := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	r2 := seedRestaurant(t, db, "Burger Bar", 45.82, 15.99, 5.0)
	a := seedFoodItem(t, db, r1.ID, "Margherita", 10.0)
	b := seedFoodItem(t, db, r2.ID, "Cheeseburger", 8.0)

	_, err := CreateOrder(db, CreateOrderInput{
		CustomerUsername: "alice",
		Cart: []CartLine{
			{FoodItemID: a.ID, Quantity: 1},
			{FoodItemID: b.ID, Quantity: 1},
		},
		PaymentMethod: "card",
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}

	// No partial state may survive the rejection.
	var orders, items, notifications int64
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderFoodItem{}).Count(&items)
	db.Model(&models.Notification{}).Count(&notifications)
	if orders != 0 || items != 0 || notifications != 0 {
		t.Errorf("partial rows persisted: orders=%d items=%d notifications=%d", orders, items, notifications)
	}
}

func TestCreateOrderUnknownFoodItem(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)

	_, err := CreateOrder(db, CreateOrderInput{
		CustomerUsername: "alice",
		Cart:             []CartLine{{FoodItemID: 999, Quantity: 1}},
		PaymentMethod:    "card",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestOrderLifecycle(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	item := seedFoodItem(t, db, r.ID, "Margherita", 10.0)
	deliverer := seedDeliverer(t, db, "bob", r.ID)

	order, err := CreateOrder(db, CreateOrderInput{
		CustomerUsername: "alice",
		Cart:             []CartLine{{FoodItemID: item.ID, Quantity: 2}},
		PaymentMethod:    "card",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// Assigning before approval violates the transition table.
	if _, err := AssignDeliverer(db, order.ID, deliverer.ID, r.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("assign before approve: err = %v, want ErrValidation", err)
	}

	if _, err := ApproveOrder(db, order.ID, r.ID); err != nil {
		t.Fatalf("ApproveOrder: %v", err)
	}
	assigned, err := AssignDeliverer(db, order.ID, deliverer.ID, r.ID)
	if err != nil {
		t.Fatalf("AssignDeliverer: %v", err)
	}
	if assigned.Status != models.StatusAssigned || assigned.DelivererID == nil {
		t.Fatalf("unexpected state after assignment: %+v", assigned)
	}

	// A second assignment loses the conditional update.
	other := seedDeliverer(t, db, "carol", r.ID)
	if _, err := AssignDeliverer(db, order.ID, other.ID, r.ID); !errors.Is(err, ErrValidation) && !errors.Is(err, ErrConflict) {
		t.Fatalf("double assign: err = %v, want conflict or validation", err)
	}

	delivered, err := MarkDelivered(db, order.ID, deliverer.ID)
	if err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	if delivered.DeliveredTime == nil {
		t.Fatal("delivered_time not stamped")
	}

	reset, err := ResetDelivery(db, order.ID, deliverer.ID)
	if err != nil {
		t.Fatalf("ResetDelivery: %v", err)
	}
	if reset.Status != models.StatusAssigned || reset.DeliveredTime != nil {
		t.Fatalf("unexpected state after reset: %+v", reset)
	}
}

func TestMarkDeliveredWrongDeliverer(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	item := seedFoodItem(t, db, r.ID, "Margherita", 10.0)
	deliverer := seedDeliverer(t, db, "bob", r.ID)
	intruder := seedDeliverer(t, db, "mallory", r.ID)

	order, _ := CreateOrder(db, CreateOrderInput{
		CustomerUsername: "alice",
		Cart:             []CartLine{{FoodItemID: item.ID, Quantity: 1}},
		PaymentMethod:    "card",
	})
	ApproveOrder(db, order.ID, r.ID)
	AssignDeliverer(db, order.ID, deliverer.ID, r.ID)

	if _, err := MarkDelivered(db, order.ID, intruder.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestForceStatus(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	item := seedFoodItem(t, db, r.ID, "Margherita", 10.0)

	order, _ := CreateOrder(db, CreateOrderInput{
		CustomerUsername: "alice",
		Cart:             []CartLine{{FoodItemID: item.ID, Quantity: 1}},
		PaymentMethod:    "card",
	})

	forced, err := ForceStatus(db, order.ID, models.StatusDelivered)
	if err != nil {
		t.Fatalf("ForceStatus: %v", err)
	}
	if forced.DeliveredTime == nil {
		t.Error("force to delivered must stamp delivered_time")
	}

	back, err := ForceStatus(db, order.ID, models.StatusPending)
	if err != nil {
		t.Fatalf("ForceStatus back: %v", err)
	}
	if back.DeliveredTime != nil {
		t.Error("force away from delivered must clear delivered_time")
	}

	if _, err := ForceStatus(db, order.ID, "cooking"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown status: err = %v, want ErrValidation", err)
	}
}

func TestFreeDeliverers(t *testing.T) {
	db := newTestDB(t)
	seedCustomer(t, db, "alice", 45.80, 15.97)
	r := seedRestaurant(t, db, "Pizza Place", 45.81, 15.98, 5.0)
	item := seedFoodItem(t, db, r.ID, "Margherita", 10.0)

	idle := seedDeliverer(t, db, "bob", r.ID)
	busy := seedDeliverer(t, db, "carol", r.ID)
	seedDeliverer(t, db, "dave", r.ID) // no session

	db.Create(&models.ActiveSession{Username: idle.Username, Token: "t1"})
	db.Create(&models.ActiveSession{Username: busy.Username, Token: "t2"})

	order, _ := CreateOrder(db, CreateOrderInput{
		CustomerUsername: "alice",
		Cart:             []CartLine{{FoodItemID: item.ID, Quantity: 1}},
		PaymentMethod:    "card",
	})
	ApproveOrder(db, order.ID, r.ID)
	AssignDeliverer(db, order.ID, busy.ID, r.ID)

	free, err := FreeDeliverers(db, r.ID)
	if err != nil {
		t.Fatalf("FreeDeliverers: %v", err)
	}
	if len(free) != 1 || free[0].Username != "bob" {
		t.Fatalf("free deliverers = %+v, want only bob", free)
	}

	// Completed deliveries free the deliverer again.
	if _, err := MarkDelivered(db, order.ID, busy.ID); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	free, _ = FreeDeliverers(db, r.ID)
	if len(free) != 2 {
		t.Fatalf("free deliverers after delivery = %d, want 2", len(free))
	}
}
