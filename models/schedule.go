package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValidSlotIntervals is the set of accepted slot granularities in minutes.
var ValidSlotIntervals = map[int]bool{5: true, 10: true, 15: true, 20: true, 30: true, 60: true}

const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 50
)

// WeeklySchedule holds the opening configuration for one weekday.
// DayOfWeek uses the schedule indexing 0=Monday .. 6=Sunday, which differs
// from time.Weekday (Sunday=0); scheduling.ScheduleIndex does the remap.
type WeeklySchedule struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DayOfWeek           int             `gorm:"uniqueIndex;not null" json:"day_of_week"`
	// No gorm default tag: GORM would skip a false value on insert and let
	// the column default flip closed days open.
	IsOpen              bool            `gorm:"not null" json:"is_open"`
	SlotIntervalMinutes int             `gorm:"default:15" json:"slot_interval_minutes"`
	SlotCapacity        int             `gorm:"default:10" json:"slot_capacity"`
	Shifts              []ScheduleShift `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"shifts"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (s *WeeklySchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ScheduleShift is one contiguous service window within a day, e.g. lunch or
// dinner. Shifts are ordered by Position and assumed non-overlapping.
type ScheduleShift struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ScheduleID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position   int       `gorm:"not null" json:"position"`
	OpenTime   string    `gorm:"not null" json:"open_time"`  // "HH:MM"
	CloseTime  string    `gorm:"not null" json:"close_time"` // "HH:MM"
}

func (s *ScheduleShift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// DefaultWeeklySchedule is the entry created lazily the first time a weekday is
// queried: Monday-Friday open with lunch and dinner service, weekend closed.
func DefaultWeeklySchedule(day int) WeeklySchedule {
	entry := WeeklySchedule{
		DayOfWeek:           day,
		IsOpen:              day <= 4,
		SlotIntervalMinutes: 15,
		SlotCapacity:        10,
	}
	if entry.IsOpen {
		entry.Shifts = []ScheduleShift{
			{Position: 0, OpenTime: "12:00", CloseTime: "15:00"},
			{Position: 1, OpenTime: "19:00", CloseTime: "23:00"},
		}
	}
	return entry
}

// Holiday is a globally closed date, regardless of the weekday schedule.
type Holiday struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Date        string    `gorm:"uniqueIndex;not null" json:"date"` // "YYYY-MM-DD"
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Holiday) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
