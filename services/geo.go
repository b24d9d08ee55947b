package services

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"food-marketplace-api/models"

	"gorm.io/gorm"
)

// popularThreshold is the all-time ordered quantity above which a food item
// is flagged popular in customer listings.
const popularThreshold = 10

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers (haversine, Earth radius 6371 km).
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// FoodItemListing is a food item as shown to customers: image rendered as
// base64 and the popular flag attached.
type FoodItemListing struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	EffectivePrice float64    `json:"effective_price"`
	Image          string     `json:"image,omitempty"`
	DiscountStart  *time.Time `json:"discount_start,omitempty"`
	DiscountEnd    *time.Time `json:"discount_end,omitempty"`
	DiscountPrice  *float64   `json:"discount_price,omitempty"`
	TypeID         uint       `json:"type_id"`
	Star           bool       `json:"star"`
}

// RestaurantListing is a restaurant within delivery range of a customer.
type RestaurantListing struct {
	ID            uint              `json:"id"`
	Name          string            `json:"name"`
	Street        string            `json:"street"`
	City          string            `json:"city"`
	Stars         int               `json:"stars"`
	Category      string            `json:"category"`
	DistanceKm    float64           `json:"distance_km"`
	DistanceLimit float64           `json:"distance_limit"`
	FoodItems     []FoodItemListing `json:"food_items"`
}

// NearbyRestaurants returns every active restaurant whose delivery radius
// covers the customer's stored coordinates, with its active food items.
func NearbyRestaurants(db *gorm.DB, customerUsername string) ([]RestaurantListing, error) {
	var customer models.User
	if err := db.Where("username = ? AND role = ?", customerUsername, models.RoleCustomer).
		First(&customer).Error; err != nil {
		return nil, fmt.Errorf("%w: customer %q", ErrNotFound, customerUsername)
	}

	var restaurants []models.Restaurant
	if err := db.Where("is_active = ?", true).Find(&restaurants).Error; err != nil {
		return nil, err
	}

	popular, err := popularFoodItems(db)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	listings := make([]RestaurantListing, 0, len(restaurants))
	for _, r := range restaurants {
		dist := DistanceKm(customer.Latitude, customer.Longitude, r.Latitude, r.Longitude)
		if dist > r.DistanceLimit {
			continue
		}

		var items []models.FoodItem
		if err := db.Where("restaurant_id = ? AND is_active = ?", r.ID, true).
			Find(&items).Error; err != nil {
			return nil, err
		}

		listing := RestaurantListing{
			ID:            r.ID,
			Name:          r.Name,
			Street:        r.Street,
			City:          r.City,
			Stars:         r.Stars,
			Category:      r.Category,
			DistanceKm:    dist,
			DistanceLimit: r.DistanceLimit,
			FoodItems:     make([]FoodItemListing, 0, len(items)),
		}
		for _, it := range items {
			fl := FoodItemListing{
				ID:             it.ID,
				Name:           it.Name,
				Description:    it.Description,
				Price:          it.Price,
				EffectivePrice: it.EffectivePrice(now),
				DiscountStart:  it.DiscountStart,
				DiscountEnd:    it.DiscountEnd,
				DiscountPrice:  it.DiscountPrice,
				TypeID:         it.TypeID,
				Star:           popular[it.ID],
			}
			if len(it.Image) > 0 {
				fl.Image = base64.StdEncoding.EncodeToString(it.Image)
			}
			listing.FoodItems = append(listing.FoodItems, fl)
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// popularFoodItems returns the set of food items whose all-time ordered
// quantity exceeds popularThreshold.
func popularFoodItems(db *gorm.DB) (map[uint]bool, error) {
	var rows []struct {
		FoodItemID uint
		Total      int
	}
	if err := db.Model(&models.OrderFoodItem{}).
		Select("food_item_id, SUM(quantity) AS total").
		Group("food_item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	popular := make(map[uint]bool, len(rows))
	for _, row := range rows {
		if row.Total > popularThreshold {
			popular[row.FoodItemID] = true
		}
	}
	return popular, nil
}
