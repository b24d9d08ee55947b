package models

import "time"

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusApproved  OrderStatus = "approved"
	StatusAssigned  OrderStatus = "assigned"
	StatusDelivered OrderStatus = "delivered"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusAssigned, StatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	CustomerID   uint        `json:"customer_id" gorm:"not null"`
	Customer     *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	RestaurantID uint        `json:"restaurant_id" gorm:"not null"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	DelivererID  *uint       `json:"deliverer_id"`
	Deliverer    *User       `json:"deliverer,omitempty" gorm:"foreignKey:DelivererID"`

	Status        OrderStatus `json:"status" gorm:"not null;default:'pending'"`
	TotalPrice    float64     `json:"total_price" gorm:"not null"`
	PaymentMethod string      `json:"payment_method" gorm:"not null"`

	// DeliveryTime is when the customer asked for the order; DeliveredTime
	// is stamped on the transition to delivered and cleared on reset.
	DeliveryTime  *time.Time `json:"delivery_time,omitempty"`
	DeliveredTime *time.Time `json:"delivered_time,omitempty"`

	Items     []OrderFoodItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderFoodItem is one cart line of an order.
type OrderFoodItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"order_id" gorm:"not null"`
	FoodItemID uint      `json:"food_item_id" gorm:"not null"`
	FoodItem   *FoodItem `json:"food_item,omitempty" gorm:"foreignKey:FoodItemID"`
	Quantity   int       `json:"quantity" gorm:"not null;default:1"`
	// Unit price actually charged (discount applied when active).
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
}

// Notification records one row per new order for the owning restaurant.
// Rows are never deleted, only bulk-marked read per restaurant.
type Notification struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null"`
	OrderID      uint      `json:"order_id" gorm:"not null"`
	IsRead       bool      `json:"is_read" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// Rating is a customer's one-shot review of a delivered order.
type Rating struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CustomerID   uint      `json:"customer_id" gorm:"not null"`
	RestaurantID uint      `json:"restaurant_id" gorm:"not null"`
	OrderID      uint      `json:"order_id" gorm:"not null"`
	Rating       int       `json:"rating" gorm:"not null"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}
