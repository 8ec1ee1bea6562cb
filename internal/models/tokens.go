package models

import "time"

// AuthToken is an opaque bearer credential stored server-side. Logout
// deletes the presented token, which revokes it immediately.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// Expired reports whether the token is past its TTL.
func (t *AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ResetToken is a single-use password reset credential delivered by email.
// Requesting a new reset replaces any previous token for the user.
type ResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (t *ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
