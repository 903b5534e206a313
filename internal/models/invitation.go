package models

import "time"

type Invitation struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	IsValid   bool      `json:"is_valid" gorm:"not null;default:true"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// Usable reports whether the invitation can still be redeemed at now.
func (i Invitation) Usable(now time.Time) bool {
	return i.IsValid && now.Before(i.ExpiresAt)
}
