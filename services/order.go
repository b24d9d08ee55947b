package services

import (
	"fmt"
	"time"

	"food-marketplace-api/metrics"
	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"

	"gorm.io/gorm"
)

// CartLine is one requested food item with a quantity.
type CartLine struct {
	FoodItemID uint `json:"food_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	CustomerUsername string
	Cart             []CartLine
	PaymentMethod    string
	DeliveryTime     *time.Time
}

// CreateOrder places an order from a single-restaurant cart. The order, its
// line items, and the restaurant notification are written in one
// transaction, so a failure anywhere leaves no partial rows.
func CreateOrder(db *gorm.DB, in CreateOrderInput) (*models.Order, error) {
	var customer models.User
	if err := db.Where("username = ? AND role = ?", in.CustomerUsername, models.RoleCustomer).
		First(&customer).Error; err != nil {
		return nil, fmt.Errorf("%w: customer %q", ErrNotFound, in.CustomerUsername)
	}
	if len(in.Cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}

	now := time.Now()
	var restaurantID uint
	var total float64
	items := make([]models.OrderFoodItem, 0, len(in.Cart))

	for _, line := range in.Cart {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}
		var item models.FoodItem
		if err := db.First(&item, line.FoodItemID).Error; err != nil {
			return nil, fmt.Errorf("%w: food item %d", ErrNotFound, line.FoodItemID)
		}
		if restaurantID == 0 {
			restaurantID = item.RestaurantID
		} else if item.RestaurantID != restaurantID {
			return nil, fmt.Errorf("%w: cart items must belong to a single restaurant", ErrValidation)
		}
		unit := item.EffectivePrice(now)
		total += unit * float64(line.Quantity)
		items = append(items, models.OrderFoodItem{
			FoodItemID: item.ID,
			Quantity:   line.Quantity,
			UnitPrice:  unit,
		})
	}

	order := models.Order{
		CustomerID:    customer.ID,
		RestaurantID:  restaurantID,
		Status:        models.StatusPending,
		TotalPrice:    total,
		PaymentMethod: in.PaymentMethod,
		DeliveryTime:  in.DeliveryTime,
		Items:         items,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		notification := models.Notification{
			RestaurantID: restaurantID,
			OrderID:      order.ID,
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlacedTotal.Inc()
	metrics.NotificationsCreatedTotal.Inc()
	return &order, nil
}

// ApproveOrder moves a pending order to approved on behalf of the
// restaurant admin owning restaurantID.
func ApproveOrder(db *gorm.DB, orderID, restaurantID uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if order.RestaurantID != restaurantID {
		return nil, fmt.Errorf("%w: order belongs to another restaurant", ErrForbidden)
	}
	if err := statemachine.CanTransition(order.Status, models.StatusApproved, "restaurantadmin"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if err := db.Model(&order).Update("status", models.StatusApproved).Error; err != nil {
		return nil, err
	}
	order.Status = models.StatusApproved
	return &order, nil
}

// AssignDeliverer attaches a deliverer to an approved order. The update is
// conditional on the row still being approved and unassigned, so two
// concurrent assignments cannot both win.
func AssignDeliverer(db *gorm.DB, orderID, delivererID, restaurantID uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if order.RestaurantID != restaurantID {
		return nil, fmt.Errorf("%w: order belongs to another restaurant", ErrForbidden)
	}
	var deliverer models.User
	if err := db.Where("id = ? AND role = ?", delivererID, models.RoleDeliverer).
		First(&deliverer).Error; err != nil {
		return nil, fmt.Errorf("%w: deliverer %d", ErrNotFound, delivererID)
	}
	if err := statemachine.CanTransition(order.Status, models.StatusAssigned, "restaurantadmin"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND deliverer_id IS NULL", orderID, models.StatusApproved).
		Updates(map[string]interface{}{
			"status":       models.StatusAssigned,
			"deliverer_id": delivererID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: order already assigned", ErrConflict)
	}

	order.Status = models.StatusAssigned
	order.DelivererID = &delivererID
	return &order, nil
}

// MarkDelivered completes an assigned order, stamping delivered_time.
func MarkDelivered(db *gorm.DB, orderID, delivererID uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if order.DelivererID == nil || *order.DelivererID != delivererID {
		return nil, fmt.Errorf("%w: you are not the assigned deliverer", ErrForbidden)
	}
	if err := statemachine.CanTransition(order.Status, models.StatusDelivered, "deliverer"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	now := time.Now()
	if err := db.Model(&order).Updates(map[string]interface{}{
		"status":         models.StatusDelivered,
		"delivered_time": now,
	}).Error; err != nil {
		return nil, err
	}
	order.Status = models.StatusDelivered
	order.DeliveredTime = &now
	return &order, nil
}

// ResetDelivery puts an order back to assigned and clears delivered_time.
func ResetDelivery(db *gorm.DB, orderID, delivererID uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	if order.DelivererID == nil || *order.DelivererID != delivererID {
		return nil, fmt.Errorf("%w: you are not the assigned deliverer", ErrForbidden)
	}
	if err := statemachine.CanTransition(order.Status, models.StatusAssigned, "deliverer"); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	if err := db.Model(&order).Updates(map[string]interface{}{
		"status":         models.StatusAssigned,
		"delivered_time": nil,
	}).Error; err != nil {
		return nil, err
	}
	order.Status = models.StatusAssigned
	order.DeliveredTime = nil
	return &order, nil
}

// ForceStatus is the admin override: any status in the closed set may be
// applied regardless of the transition table. delivered_time is stamped or
// cleared to stay consistent with the target status.
func ForceStatus(db *gorm.DB, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}

	updates := map[string]interface{}{"status": status}
	if status == models.StatusDelivered {
		now := time.Now()
		updates["delivered_time"] = now
		order.DeliveredTime = &now
	} else {
		updates["delivered_time"] = nil
		order.DeliveredTime = nil
	}
	if err := db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}
	order.Status = status
	return &order, nil
}

// FreeDeliverers lists the restaurant's deliverers who have an active
// session and no undelivered orders. This is a liveness heuristic; the
// conditional update in AssignDeliverer is what prevents double assignment.
func FreeDeliverers(db *gorm.DB, restaurantID uint) ([]models.User, error) {
	var deliverers []models.User
	if err := db.Where("role = ? AND restaurant_id = ?", models.RoleDeliverer, restaurantID).
		Find(&deliverers).Error; err != nil {
		return nil, err
	}

	free := make([]models.User, 0, len(deliverers))
	for _, d := range deliverers {
		var sessions int64
		if err := db.Model(&models.ActiveSession{}).
			Where("username = ?", d.Username).
			Count(&sessions).Error; err != nil {
			return nil, err
		}
		if sessions == 0 {
			continue
		}
		var open int64
		if err := db.Model(&models.Order{}).
			Where("deliverer_id = ? AND status <> ?", d.ID, models.StatusDelivered).
			Count(&open).Error; err != nil {
			return nil, err
		}
		if open == 0 {
			free = append(free, d)
		}
	}
	return free, nil
}
