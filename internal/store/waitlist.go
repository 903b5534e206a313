package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/magnetic-studio/studio-api/internal/models"
)

type WaitlistStore struct {
	db *gorm.DB
}

func NewWaitlistStore(db *gorm.DB) *WaitlistStore {
	return &WaitlistStore{db: db}
}

func (s *WaitlistStore) Add(ctx context.Context, email string) (models.WaitlistEntry, error) {
	entry := models.WaitlistEntry{Email: email}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return models.WaitlistEntry{}, fmt.Errorf("add to waitlist: %w", translate(err))
	}
	return entry, nil
}

func (s *WaitlistStore) Exists(ctx context.Context, email string) (bool, error) {
	var entry models.WaitlistEntry
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check waitlist: %w", err)
	}
	return true, nil
}
