package models

import "time"

type Item struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Task        string    `json:"task" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	IsCompleted bool      `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
