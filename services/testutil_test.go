package services

import (
	"fmt"
	"testing"

	"food-marketplace-api/config"
	"food-marketplace-api/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh named in-memory database for one test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, username string, lat, lon float64) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		FirstName:    "Test",
		LastName:     "Customer",
		Address:      "Test street 1",
		Latitude:     lat,
		Longitude:    lon,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return &u
}

func seedDeliverer(t *testing.T, db *gorm.DB, username string, restaurantID uint) *models.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	u := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleDeliverer,
		RestaurantID: &restaurantID,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed deliverer: %v", err)
	}
	return &u
}

func seedRestaurant(t *testing.T, db *gorm.DB, name string, lat, lon, limit float64) *models.Restaurant {
	t.Helper()
	r := models.Restaurant{
		Name:          name,
		Latitude:      lat,
		Longitude:     lon,
		Street:        "Main street 1",
		City:          "Zagreb",
		Stars:         4,
		Category:      "pizza",
		DistanceLimit: limit,
		IsActive:      true,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return &r
}

func seedFoodItem(t *testing.T, db *gorm.DB, restaurantID uint, name string, price float64) *models.FoodItem {
	t.Helper()
	ft := models.FoodType{Name: "type-" + name}
	if err := db.Create(&ft).Error; err != nil {
		t.Fatalf("seed food type: %v", err)
	}
	item := models.FoodItem{
		Name:         name,
		Price:        price,
		TypeID:       ft.ID,
		RestaurantID: restaurantID,
		IsActive:     true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed food item: %v", err)
	}
	return &item
}
