package models

// AlertStatus values accepted on an alert. Only active alerts are evaluated.
const (
	AlertStatusActive   = "active"
	AlertStatusInactive = "inactive"
)

// Alert is a per-user, per-category consumption threshold rule.
type Alert struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"-"`
	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Limit      float64   `gorm:"not null" json:"limit"`
	Status     string    `gorm:"size:30;default:'active'" json:"status"`
	Message    string    `gorm:"size:255" json:"message"`
}

// GetUserID implements the policy.Ownable interface.
func (a *Alert) GetUserID() uint {
	return a.UserID
}
