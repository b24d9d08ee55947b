package models

import "time"

type Restaurant struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Latitude      float64   `json:"latitude" gorm:"not null"`
	Longitude     float64   `json:"longitude" gorm:"not null"`
	Street        string    `json:"street" gorm:"not null"`
	City          string    `json:"city" gorm:"not null"`
	Stars         int       `json:"stars"`
	Category      string    `json:"category"`
	DistanceLimit float64   `json:"distance_limit" gorm:"not null"` // delivery radius in km
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`

	FoodItems []FoodItem `json:"food_items,omitempty" gorm:"foreignKey:RestaurantID"`
	Menus     []Menu     `json:"menus,omitempty" gorm:"foreignKey:RestaurantID"`
}

// RestaurantType is a lookup table; deletion is blocked while any
// restaurant references the type name as its category.
type RestaurantType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// FoodType is a lookup table; deletion is blocked while referenced.
type FoodType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type FoodItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"not null"`
	// Raw image bytes; transmitted as base64 on the wire.
	Image []byte `json:"-"`

	DiscountStart *time.Time `json:"discount_start,omitempty"`
	DiscountEnd   *time.Time `json:"discount_end,omitempty"`
	DiscountPrice *float64   `json:"discount_price,omitempty"`

	TypeID       uint       `json:"type_id" gorm:"not null"`
	Type         *FoodType  `json:"type,omitempty" gorm:"foreignKey:TypeID"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// EffectivePrice returns the discounted price when the discount window
// covers at, otherwise the regular price.
func (f *FoodItem) EffectivePrice(at time.Time) float64 {
	if f.DiscountPrice != nil && f.DiscountStart != nil && f.DiscountEnd != nil &&
		!at.Before(*f.DiscountStart) && !at.After(*f.DiscountEnd) {
		return *f.DiscountPrice
	}
	return f.Price
}

// Menu groups food items under a restaurant and can be toggled
// independently of the items it contains.
type Menu struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null"`
	RestaurantID uint       `json:"restaurant_id" gorm:"not null"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	FoodItems    []FoodItem `json:"food_items,omitempty" gorm:"many2many:menu_food_items;"`
	CreatedAt    time.Time  `json:"created_at"`
}

// MenuFoodItem is the menu/food-item join table.
type MenuFoodItem struct {
	MenuID     uint `gorm:"primaryKey"`
	FoodItemID uint `gorm:"primaryKey"`
}
