package handlers_test

import (
	"net/http"
	"testing"

	"food-marketplace-api/config"
	"food-marketplace-api/models"

	"github.com/gin-gonic/gin"
)

// seedCatalog creates a restaurant with one food item directly in the
// database, bypassing the admin endpoints.
func seedCatalog(t *testing.T) (*models.Restaurant, *models.FoodItem) {
	t.Helper()
	r := models.Restaurant{
		Name: "Pizza Place", Latitude: 45.81, Longitude: 15.98,
		Street: "Ilica 1", City: "Zagreb", DistanceLimit: 5, IsActive: true,
	}
	if err := config.DB.Create(&r).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	ft := models.FoodType{Name: "pizza"}
	if err := config.DB.Create(&ft).Error; err != nil {
		t.Fatalf("seed food type: %v", err)
	}
	item := models.FoodItem{
		Name: "Margherita", Price: 10.0, TypeID: ft.ID,
		RestaurantID: r.ID, IsActive: true,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		t.Fatalf("seed food item: %v", err)
	}
	return &r, &item
}

func TestPlaceOrderSucceedsWhenConfirmationEmailFails(t *testing.T) {
	r, mail := newTestServer(t)
	seedUser(t, models.RoleCustomer, "alice", nil)
	_, item := seedCatalog(t)
	token := login(t, r, "alice")

	mail.fail = true
	code, resp := do(t, r, http.MethodPost, "/api/customer/orders", token, gin.H{
		"cart":           []gin.H{{"food_item_id": item.ID, "quantity": 2}},
		"payment_method": "card",
	})
	if code != http.StatusCreated {
		t.Fatalf("place order: status %d, want 201, body %v", code, resp)
	}
	if resp["confirmation_sent"] != false {
		t.Errorf("confirmation_sent = %v, want false", resp["confirmation_sent"])
	}

	// The order itself must survive the mail failure.
	var orders int64
	config.DB.Model(&models.Order{}).Count(&orders)
	if orders != 1 {
		t.Errorf("orders = %d, want 1", orders)
	}
}
