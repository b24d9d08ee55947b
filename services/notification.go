package services

import (
	"food-marketplace-api/models"

	"gorm.io/gorm"
)

// ListNotifications returns a restaurant's notifications newest first,
// together with the unread count.
func ListNotifications(db *gorm.DB, restaurantID uint) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	if err := db.Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	var unread int64
	if err := db.Model(&models.Notification{}).
		Where("restaurant_id = ? AND is_read = ?", restaurantID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, err
	}
	return notifications, unread, nil
}

// MarkNotificationsRead bulk-marks every unread notification of the
// restaurant as read. Other restaurants' rows are untouched.
func MarkNotificationsRead(db *gorm.DB, restaurantID uint) (int64, error) {
	res := db.Model(&models.Notification{}).
		Where("restaurant_id = ? AND is_read = ?", restaurantID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
