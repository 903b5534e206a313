package models

import (
	"time"

	"gorm.io/gorm"
)

// RegistrationFields is the normalized output of registration validation.
// Optional values are nil when not provided.
type RegistrationFields struct {
	Name                 string     `json:"name"`
	Surnames             string     `json:"surnames"`
	DNI                  string     `json:"dni"`
	Phone                string     `json:"phone"`
	Address              string     `json:"address"`
	City                 string     `json:"city"`
	Province             string     `json:"province"`
	PostalCode           string     `json:"postal_code"`
	Email                string     `json:"email"`
	BirthDate            time.Time  `json:"birth_date"`
	ParentName           *string    `json:"parent_name,omitempty"`
	ParentPhone          *string    `json:"parent_phone,omitempty"`
	ParentBirthDate      *time.Time `json:"parent_birth_date,omitempty"`
	ParentDNI            *string    `json:"parent_dni,omitempty"`
	IBAN                 *string    `json:"iban,omitempty"`
	AcceptTerms          bool       `json:"accept_terms"`
	AcceptServices       bool       `json:"accept_services"`
	AcceptAdvertisements bool       `json:"accept_advertisements"`
	AcceptImageRights    bool       `json:"accept_image_rights"`
}

type Registration struct {
	gorm.Model
	InvitationID       string     `json:"invitation_id" gorm:"index;not null"`
	Invitation         Invitation `json:"-" gorm:"foreignKey:InvitationID"`
	RegistrationFields `gorm:"embedded"`
}
