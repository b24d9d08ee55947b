package models

import "time"

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleAdmin           UserRole = "admin"
	RoleRestaurantAdmin UserRole = "restaurantadmin"
	RoleDeliverer       UserRole = "deliverer"
	RoleCustomer        UserRole = "customer"
)

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleRestaurantAdmin, RoleDeliverer, RoleCustomer:
		return true
	}
	return false
}

// User is the single identity table for all four roles. Username and email
// carry database unique indexes, so duplicate registrations lose at the
// constraint even under concurrent requests.
type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null"`

	// Restaurant affiliation, set for restaurant admins and deliverers.
	RestaurantID *uint       `json:"restaurant_id,omitempty"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`

	// Customer profile.
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ActiveSession holds the single currently valid token per username.
// A new login deletes the old row, invalidating the previous device.
type ActiveSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Token     string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// PasswordResetUse records the jti of every consumed reset token so a
// captured token cannot be replayed after a successful reset.
type PasswordResetUse struct {
	ID        uint      `gorm:"primaryKey"`
	TokenID   string    `gorm:"uniqueIndex;not null"`
	Username  string    `gorm:"not null"`
	CreatedAt time.Time
}
