package handlers

import (
	"encoding/base64"
	"net/http"
	"time"

	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

// callerRestaurant resolves the restaurant the logged-in restaurant admin
// belongs to.
func callerRestaurant(c *gin.Context) (*models.Restaurant, bool) {
	restaurantID, ok := middleware.GetRestaurantID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant linked to your account"})
		return nil, false
	}
	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return nil, false
	}
	return &restaurant, true
}

// ── Food items ──────────────────────────────────────────────────────────────

type FoodItemRequest struct {
	Name          string     `json:"name" binding:"required"`
	Description   string     `json:"description"`
	Price         float64    `json:"price" binding:"required,gt=0"`
	Image         string     `json:"image"` // base64
	DiscountStart *time.Time `json:"discount_start"`
	DiscountEnd   *time.Time `json:"discount_end"`
	DiscountPrice *float64   `json:"discount_price"`
	TypeID        uint       `json:"type_id" binding:"required"`
}

// AddFoodItem adds a food item to the caller's restaurant.
func AddFoodItem(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}

	var req FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var foodType models.FoodType
	if err := config.DB.First(&foodType, req.TypeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food type not found"})
		return
	}

	item := models.FoodItem{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountStart: req.DiscountStart,
		DiscountEnd:   req.DiscountEnd,
		DiscountPrice: req.DiscountPrice,
		TypeID:        foodType.ID,
		RestaurantID:  restaurant.ID,
		IsActive:      true,
	}
	if req.Image != "" {
		raw, err := base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Image is not valid base64"})
			return
		}
		item.Image = raw
	}

	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add food item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Food item added", "item": item})
}

// ListFoodItems returns the caller's restaurant food items, images base64
// encoded.
func ListFoodItems(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	var items []models.FoodItem
	config.DB.Where("restaurant_id = ?", restaurant.ID).Find(&items)

	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		entry := gin.H{
			"id":             it.ID,
			"name":           it.Name,
			"description":    it.Description,
			"price":          it.Price,
			"type_id":        it.TypeID,
			"is_active":      it.IsActive,
			"discount_start": it.DiscountStart,
			"discount_end":   it.DiscountEnd,
			"discount_price": it.DiscountPrice,
		}
		if len(it.Image) > 0 {
			entry["image"] = base64.StdEncoding.EncodeToString(it.Image)
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "food_items": out})
}

// UpdateFoodItem applies a partial update to a food item of the caller's
// restaurant.
func UpdateFoodItem(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}

	var item models.FoodItem
	if err := config.DB.First(&item, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food item not found"})
		return
	}
	if item.RestaurantID != restaurant.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Food item belongs to another restaurant"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if img, ok := req["image"].(string); ok {
		raw, err := base64.StdEncoding.DecodeString(img)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Image is not valid base64"})
			return
		}
		req["image"] = raw
	}

	allowed := map[string]bool{
		"name": true, "description": true, "price": true, "image": true,
		"discount_start": true, "discount_end": true, "discount_price": true,
		"type_id": true, "is_active": true,
	}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&item).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Food item updated", "item": item})
}

// ArchiveFoodItem soft-deletes a food item via is_active.
func ArchiveFoodItem(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	var item models.FoodItem
	if err := config.DB.First(&item, c.Param("itemId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Food item not found"})
		return
	}
	if item.RestaurantID != restaurant.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Food item belongs to another restaurant"})
		return
	}
	config.DB.Model(&item).Update("is_active", false)
	c.JSON(http.StatusOK, gin.H{"message": "Food item archived"})
}

// ── Menus ───────────────────────────────────────────────────────────────────

type CreateMenuRequest struct {
	Name        string `json:"name" binding:"required"`
	FoodItemIDs []uint `json:"food_item_ids" binding:"required,min=1"`
}

// CreateMenu groups food items of the caller's restaurant into a menu.
func CreateMenu(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}

	var req CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var items []models.FoodItem
	if err := config.DB.Where("id IN ? AND restaurant_id = ?", req.FoodItemIDs, restaurant.ID).
		Find(&items).Error; err != nil || len(items) != len(req.FoodItemIDs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "All food items must exist and belong to your restaurant"})
		return
	}

	menu := models.Menu{
		Name:         req.Name,
		RestaurantID: restaurant.ID,
		IsActive:     true,
		FoodItems:    items,
	}
	if err := config.DB.Create(&menu).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu created", "menu": menu})
}

// ListMenus returns the caller's restaurant menus with their items.
func ListMenus(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	var menus []models.Menu
	config.DB.Preload("FoodItems").Where("restaurant_id = ?", restaurant.ID).Find(&menus)
	c.JSON(http.StatusOK, gin.H{"count": len(menus), "menus": menus})
}

// ToggleMenu flips a menu's active flag.
func ToggleMenu(c *gin.Context) {
	restaurant, ok := callerRestaurant(c)
	if !ok {
		return
	}
	var menu models.Menu
	if err := config.DB.First(&menu, c.Param("menuId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
		return
	}
	if menu.RestaurantID != restaurant.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Menu belongs to another restaurant"})
		return
	}
	config.DB.Model(&menu).Update("is_active", !menu.IsActive)
	c.JSON(http.StatusOK, gin.H{"message": "Menu toggled", "is_active": !menu.IsActive})
}
