package models

import "time"

// Session is a server-side session record keyed by an opaque token. The
// token is the value handed to the client; the row is the authorization
// anchor: a token that no longer resolves to a row carries no identity.
type Session struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"`
	UserID    uint      `gorm:"index;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null"`
}
