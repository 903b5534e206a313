package models

import "time"

// BeginnersClass is a weekly beginners slot. Weekday follows time.Weekday
// and StartTime is "HH:MM".
type BeginnersClass struct {
	ID        uint               `json:"id" gorm:"primaryKey"`
	Name      string             `json:"name" gorm:"not null"`
	Weekday   time.Weekday       `json:"weekday"`
	StartTime string             `json:"start_time"`
	Students  []BeginnersStudent `json:"students,omitempty" gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `json:"created_at"`
}

type BeginnersStudent struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ClassID     uint      `json:"class_id" gorm:"index;not null"`
	FullName    string    `json:"full_name" gorm:"not null"`
	PaymentDate time.Time `json:"payment_date"`
	BonusFrom   time.Time `json:"bonus_from"`
	BonusTo     time.Time `json:"bonus_to"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
