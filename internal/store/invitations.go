package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/magnetic-studio/studio-api/internal/models"
)

type InvitationStore struct {
	db *gorm.DB
}

func NewInvitationStore(db *gorm.DB) *InvitationStore {
	return &InvitationStore{db: db}
}

// Create issues a new valid invitation that expires at expiresAt.
func (s *InvitationStore) Create(ctx context.Context, expiresAt time.Time) (models.Invitation, error) {
	invitation := models.Invitation{
		ID:        uuid.NewString(),
		IsValid:   true,
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&invitation).Error; err != nil {
		return models.Invitation{}, fmt.Errorf("create invitation: %w", err)
	}
	return invitation, nil
}

func (s *InvitationStore) Get(ctx context.Context, id string) (models.Invitation, error) {
	var invitation models.Invitation
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error; err != nil {
		return models.Invitation{}, translate(err)
	}
	return invitation, nil
}

func (s *InvitationStore) Latest(ctx context.Context) (models.Invitation, error) {
	var invitation models.Invitation
	if err := s.db.WithContext(ctx).Order("created_at desc").First(&invitation).Error; err != nil {
		return models.Invitation{}, translate(err)
	}
	return invitation, nil
}

// ExpireBefore invalidates every still-valid invitation whose expiry is not
// after now and returns how many rows changed.
func (s *InvitationStore) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("is_valid = ? AND expires_at <= ?", true, now).
		Update("is_valid", false)
	if res.Error != nil {
		return 0, fmt.Errorf("expire invitations: %w", res.Error)
	}
	return res.RowsAffected, nil
}
