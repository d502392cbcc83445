package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoyaltyProgram is a singleton configuration row. The unique index on
// Singleton guarantees at most one row exists even under concurrent
// get-or-create calls.
type LoyaltyProgram struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Singleton         bool      `gorm:"uniqueIndex;default:true" json:"-"`
	PointsDivisor     int       `gorm:"default:10" json:"points_divisor"` // 1 point per PointsDivisor currency units spent
	RegistrationBonus int       `gorm:"default:10" json:"registration_bonus"`
	BirthdayBonus     int       `gorm:"default:20" json:"birthday_bonus"`
	SilverThreshold   int       `gorm:"default:100" json:"silver_threshold"`
	GoldThreshold     int       `gorm:"default:250" json:"gold_threshold"`
	VIPThreshold      int       `gorm:"default:500" json:"vip_threshold"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (p *LoyaltyProgram) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DefaultLoyaltyProgram returns the program created on first access.
func DefaultLoyaltyProgram() LoyaltyProgram {
	return LoyaltyProgram{
		Singleton:         true,
		PointsDivisor:     10,
		RegistrationBonus: 10,
		BirthdayBonus:     20,
		SilverThreshold:   100,
		GoldThreshold:     250,
		VIPThreshold:      500,
	}
}

// GetLoyaltyProgram returns the singleton program, creating it with defaults on
// first call. Creation goes through ON CONFLICT DO NOTHING so two concurrent
// first calls cannot both insert.
func GetLoyaltyProgram(db *gorm.DB) (*LoyaltyProgram, error) {
	var program LoyaltyProgram
	err := db.First(&program).Error
	if err == nil {
		return &program, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	def := DefaultLoyaltyProgram()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&def).Error; err != nil {
		return nil, err
	}
	if err := db.First(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

// BadgeFor maps an accumulated point balance onto a loyalty tier.
func (p *LoyaltyProgram) BadgeFor(points int) Badge {
	switch {
	case points >= p.VIPThreshold:
		return BadgeVIP
	case points >= p.GoldThreshold:
		return BadgeGold
	case points >= p.SilverThreshold:
		return BadgeSilver
	default:
		return BadgeBronze
	}
}

// PointsForTotal computes the points earned for an order total.
func (p *LoyaltyProgram) PointsForTotal(total float64) int {
	divisor := p.PointsDivisor
	if divisor <= 0 {
		divisor = 10
	}
	return int(total) / divisor
}

type LoyaltyHistory struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer    Customer   `gorm:"foreignKey:CustomerID" json:"-"`
	Points      int        `gorm:"not null" json:"points"`
	Type        string     `gorm:"not null" json:"type"` // "earned", "redeemed" or "bonus"
	Description string     `json:"description"`
	OrderID     *uuid.UUID `gorm:"type:uuid" json:"order_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (h *LoyaltyHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
