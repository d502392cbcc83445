package scheduling

import (
	"errors"
	"time"

	"trattoria-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateSchedule loads the schedule entry for a weekday (0=Monday ..
// 6=Sunday), creating it with defaults on first access. Concurrent first
// accesses are resolved by the unique index on day_of_week: the losing insert
// falls back to re-reading the winner's row.
func GetOrCreateSchedule(db *gorm.DB, day int) (*models.WeeklySchedule, error) {
	var entry models.WeeklySchedule
	err := db.Preload("Shifts", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("day_of_week = ?", day).First(&entry).Error
	if err == nil {
		return &entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	def := models.DefaultWeeklySchedule(day)
	if err := db.Create(&def).Error; err != nil {
		// Lost the race: another request inserted this weekday first.
		if err := db.Preload("Shifts", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).Where("day_of_week = ?", day).First(&entry).Error; err != nil {
			return nil, ErrConfigurationMissing
		}
		return &entry, nil
	}
	return &def, nil
}

// lockSchedule reloads the weekday row FOR UPDATE inside tx so that two
// concurrent admissions for the same weekday serialize on the capacity check.
// SQLite (used in tests) locks the whole database per write transaction and
// rejects FOR UPDATE, so the clause is only added on Postgres.
func lockSchedule(tx *gorm.DB, day int) (*models.WeeklySchedule, error) {
	entry, err := GetOrCreateSchedule(tx, day)
	if err != nil {
		return nil, err
	}
	if tx.Dialector.Name() == "postgres" {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("day_of_week = ?", day).First(&models.WeeklySchedule{}).Error; err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// Admit runs the full admission check for an order at date/clock: schedule
// lookup, holiday and shift resolution, then the capacity check. force skips
// only the capacity check, never the closed-day or shift checks. excludeID is
// set when rescheduling an existing order.
//
// Admit must be called inside the transaction that will insert or update the
// order; the schedule row lock it takes closes the window where two concurrent
// requests both observe a non-full slot.
func Admit(tx *gorm.DB, date time.Time, clock string, force bool, excludeID *uuid.UUID) (*models.WeeklySchedule, error) {
	entry, err := lockSchedule(tx, ScheduleIndex(date.Weekday()))
	if err != nil {
		return nil, err
	}

	day := date.Format("2006-01-02")
	var holidays int64
	if err := tx.Model(&models.Holiday{}).Where("date = ?", day).Count(&holidays).Error; err != nil {
		return nil, err
	}
	if holidays > 0 {
		return nil, &ClosedDayError{Date: day, Holiday: true}
	}

	res, err := Resolve(clock, entry)
	if err != nil {
		return nil, err
	}
	if !res.IsOpen {
		return nil, &ClosedDayError{Date: day}
	}
	if !res.InShift {
		return nil, &OutsideShiftError{Clock: clock}
	}

	if !force {
		count, err := CountActiveOrders(tx, date, clock, excludeID)
		if err != nil {
			return nil, err
		}
		if count >= int64(entry.SlotCapacity) {
			return nil, &SlotFullError{Clock: clock, Capacity: entry.SlotCapacity}
		}
	}
	return entry, nil
}
