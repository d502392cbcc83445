package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Badge string

const (
	BadgeBronze Badge = "bronze"
	BadgeSilver Badge = "silver"
	BadgeGold   Badge = "gold"
	BadgeVIP    Badge = "vip"
)

type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `gorm:"uniqueIndex;not null" json:"phone"`
	Email     string         `json:"email"`
	Birthday  *time.Time     `json:"birthday,omitempty"`
	Points    int            `gorm:"default:0" json:"points"`
	Badge     Badge          `gorm:"default:bronze" json:"badge"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
