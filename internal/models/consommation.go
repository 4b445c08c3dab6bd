package models

import (
	"encoding/json"
	"math"
	"time"
)

// Consommation is a single metered usage record for a user and category.
type Consommation struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	User             User      `gorm:"foreignKey:UserID" json:"-"`
	CategoryID       uint      `gorm:"index;not null" json:"category_id"`
	Category         *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Value            float64   `gorm:"not null" json:"value"`
	UnitPrice        float64   `gorm:"not null" json:"unit_price"`
	DateConsommation time.Time `gorm:"index;not null" json:"date_consommation"`
}

// GetUserID implements the policy.Ownable interface.
func (c *Consommation) GetUserID() uint {
	return c.UserID
}

// TotalPrice is derived on read, never stored: value × unit price rounded
// half-up to 2 decimal places.
func (c *Consommation) TotalPrice() float64 {
	return math.Round(c.Value*c.UnitPrice*100) / 100
}

// MarshalJSON adds the derived total_price field to the wire representation.
func (c Consommation) MarshalJSON() ([]byte, error) {
	type alias Consommation
	return json.Marshal(struct {
		alias
		TotalPrice float64 `json:"total_price"`
	}{alias(c), c.TotalPrice()})
}
