package models

import "time"

// Notification records that a consumption tripped an alert. The unique index
// on AlertID enforces at most one notification per alert; a concurrent
// duplicate insert fails on the constraint instead of producing a second row.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	AlertID   uint      `gorm:"uniqueIndex;not null" json:"alert_id"`
	Alert     *Alert    `gorm:"foreignKey:AlertID" json:"alert,omitempty"`
	Type      string    `gorm:"size:50;default:'alert'" json:"type"`
	Read      bool      `gorm:"default:false" json:"read"`
}

// GetUserID implements the policy.Ownable interface.
func (n *Notification) GetUserID() uint {
	return n.UserID
}
