// Package report generates the monthly PDF reports and owns the cron
// schedule that emails them to stakeholders.
package report

import (
	"bytes"
	"fmt"
	"time"

	"food-marketplace-api/models"

	"github.com/go-pdf/fpdf"
	"gorm.io/gorm"
)

// BuildRestaurantReport renders the monthly PDF for one restaurant: daily
// order counts across [from, to), the total, and per-deliverer delivery
// counts.
func BuildRestaurantReport(db *gorm.DB, restaurant *models.Restaurant, from, to time.Time) ([]byte, error) {
	var orders []models.Order
	if err := db.Where("restaurant_id = ? AND created_at >= ? AND created_at < ?",
		restaurant.ID, from, to).Find(&orders).Error; err != nil {
		return nil, err
	}

	daily := map[string]int{}
	deliveries := map[uint]int{}
	for _, o := range orders {
		daily[o.CreatedAt.Format("2006-01-02")]++
		if o.Status == models.StatusDelivered && o.DelivererID != nil {
			deliveries[*o.DelivererID]++
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Monthly report - %s", restaurant.Name))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		from.Format("2006-01-02"), to.Add(-24*time.Hour).Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Orders per day")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if count := daily[key]; count > 0 {
			pdf.Cell(0, 6, fmt.Sprintf("%s: %d orders", key, count))
			pdf.Ln(6)
		}
	}
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total orders: %d", len(orders)))
	pdf.Ln(10)

	pdf.Cell(0, 8, "Deliveries per deliverer")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for delivererID, count := range deliveries {
		var deliverer models.User
		name := fmt.Sprintf("deliverer #%d", delivererID)
		if err := db.First(&deliverer, delivererID).Error; err == nil {
			name = deliverer.Username
		}
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d deliveries", name, count))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPlatformReport renders the platform-wide monthly PDF: per-restaurant
// order counts and revenue across [from, to).
func BuildPlatformReport(db *gorm.DB, from, to time.Time) ([]byte, error) {
	var restaurants []models.Restaurant
	if err := db.Find(&restaurants).Error; err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Platform monthly report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		from.Format("2006-01-02"), to.Add(-24*time.Hour).Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Orders and revenue per restaurant")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)

	for _, r := range restaurants {
		var orders []models.Order
		if err := db.Where("restaurant_id = ? AND created_at >= ? AND created_at < ?",
			r.ID, from, to).Find(&orders).Error; err != nil {
			return nil, err
		}
		var revenue float64
		for _, o := range orders {
			revenue += o.TotalPrice
		}
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d orders, %.2f revenue", r.Name, len(orders), revenue))
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
