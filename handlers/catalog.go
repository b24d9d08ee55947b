package handlers

import (
	"net/http"

	"food-marketplace-api/config"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

// ── Restaurant management (platform admin) ──────────────────────────────────

type CreateRestaurantRequest struct {
	Name          string  `json:"name" binding:"required"`
	Latitude      float64 `json:"latitude" binding:"required"`
	Longitude     float64 `json:"longitude" binding:"required"`
	Street        string  `json:"street" binding:"required"`
	City          string  `json:"city" binding:"required"`
	Stars         int     `json:"stars"`
	Category      string  `json:"category"`
	DistanceLimit float64 `json:"distance_limit" binding:"required,gt=0"`
}

// CreateRestaurant registers a new restaurant.
func CreateRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurant := models.Restaurant{
		Name:          req.Name,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Street:        req.Street,
		City:          req.City,
		Stars:         req.Stars,
		Category:      req.Category,
		DistanceLimit: req.DistanceLimit,
		IsActive:      true,
	}
	if err := config.DB.Create(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// ListRestaurants returns all restaurants, optionally filtered.
func ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := config.DB

	if category := c.Query("category"); category != "" {
		query = query.Where("category LIKE ?", "%"+category+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}
	if active := c.Query("active"); active == "true" {
		query = query.Where("is_active = ?", true)
	}

	query.Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// GetRestaurant returns a single restaurant with its food items.
func GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("FoodItems").First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// UpdateRestaurant applies a partial update to safe fields.
func UpdateRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	allowed := map[string]bool{
		"name": true, "latitude": true, "longitude": true, "street": true,
		"city": true, "stars": true, "category": true, "distance_limit": true,
		"is_active": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&restaurant).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// ArchiveRestaurant soft-deletes a restaurant via is_active.
func ArchiveRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	config.DB.Model(&restaurant).Update("is_active", false)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant archived"})
}

// ── Lookup types (platform admin) ───────────────────────────────────────────

type CreateTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateFoodType adds a food type; name is unique.
func CreateFoodType(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := models.FoodType{Name: req.Name}
	if err := config.DB.Create(&t).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Food type already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"food_type": t})
}

// ListFoodTypes returns all food types.
func ListFoodTypes(c *gin.Context) {
	var types []models.FoodType
	config.DB.Find(&types)
	c.JSON(http.StatusOK, gin.H{"count": len(types), "food_types": types})
}

// DeleteFoodType removes a food type unless any food item references it.
func DeleteFoodType(c *gin.Context) {
	var t models.FoodType
	if err := config.DB.First(&t, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food type not found"})
		return
	}
	var refs int64
	config.DB.Model(&models.FoodItem{}).Where("type_id = ?", t.ID).Count(&refs)
	if refs > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Food type is referenced by food items"})
		return
	}
	config.DB.Delete(&t)
	c.JSON(http.StatusOK, gin.H{"message": "Food type deleted"})
}

// CreateRestaurantType adds a restaurant type; name is unique.
func CreateRestaurantType(c *gin.Context) {
	var req CreateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := models.RestaurantType{Name: req.Name}
	if err := config.DB.Create(&t).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Restaurant type already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"restaurant_type": t})
}

// ListRestaurantTypes returns all restaurant types.
func ListRestaurantTypes(c *gin.Context) {
	var types []models.RestaurantType
	config.DB.Find(&types)
	c.JSON(http.StatusOK, gin.H{"count": len(types), "restaurant_types": types})
}

// DeleteRestaurantType removes a restaurant type unless a restaurant uses
// it as its category.
func DeleteRestaurantType(c *gin.Context) {
	var t models.RestaurantType
	if err := config.DB.First(&t, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant type not found"})
		return
	}
	var refs int64
	config.DB.Model(&models.Restaurant{}).Where("category = ?", t.Name).Count(&refs)
	if refs > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Restaurant type is referenced by restaurants"})
		return
	}
	config.DB.Delete(&t)
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant type deleted"})
}
