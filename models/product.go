package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Description     string         `json:"description"`
	Price           float64        `gorm:"not null" json:"price"`
	CategoryID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	Category        Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	IsActive        bool           `gorm:"not null" json:"is_active"`
	OnPromotion     bool           `gorm:"default:false" json:"on_promotion"`
	PromoPrice      *float64       `json:"promo_price,omitempty"`
	PrepTimeMinutes int            `gorm:"default:15" json:"prep_time_minutes"`
	IsVegetarian    bool           `gorm:"default:false" json:"is_vegetarian"`
	IsVegan         bool           `gorm:"default:false" json:"is_vegan"`
	IsGlutenFree    bool           `gorm:"default:false" json:"is_gluten_free"`
	ImageURL        string         `json:"image_url"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CurrentPrice returns the promotional price when the promotion flag is set
// and a promo price is configured, otherwise the list price.
func (p *Product) CurrentPrice() float64 {
	if p.OnPromotion && p.PromoPrice != nil {
		return *p.PromoPrice
	}
	return p.Price
}
