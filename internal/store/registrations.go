package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/magnetic-studio/studio-api/internal/models"
)

type RegistrationStore struct {
	db *gorm.DB
}

func NewRegistrationStore(db *gorm.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Registration{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

func (s *RegistrationStore) List(ctx context.Context) ([]models.Registration, error) {
	var registrations []models.Registration
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&registrations).Error; err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return registrations, nil
}

// Create inserts one registration row for invitationID and returns its id.
func (s *RegistrationStore) Create(ctx context.Context, invitationID string, fields models.RegistrationFields) (uint, error) {
	registration := models.Registration{
		InvitationID:       invitationID,
		RegistrationFields: fields,
	}
	if err := s.db.WithContext(ctx).Omit("Invitation").Create(&registration).Error; err != nil {
		return 0, fmt.Errorf("create registration: %w", translate(err))
	}
	return registration.ID, nil
}
