package scheduling

import (
	"time"

	"trattoria-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DayRange returns the closed interval covering the calendar day of date, so
// that stored timestamps carrying time-of-day noise still compare equal by day.
func DayRange(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// CountActiveOrders counts non-cancelled orders occupying the given date and
// time slot. excludeID skips the order being updated so it does not count
// against its own slot.
func CountActiveOrders(db *gorm.DB, date time.Time, clock string, excludeID *uuid.UUID) (int64, error) {
	start, end := DayRange(date)
	query := db.Model(&models.Order{}).
		Where("date >= ? AND date <= ?", start, end).
		Where("time = ?", clock).
		Where("status <> ?", models.OrderStatusCancelled)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
