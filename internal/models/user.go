package models

import "time"

// User represents an account in the system. Accounts are created inactive
// and must be activated before they can log in.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	IsActive  bool      `gorm:"default:false" json:"is_active"`
	Role      string    `gorm:"size:50;default:'user'" json:"role"`

	Consommations []Consommation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Alerts        []Alert        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
