package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/magnetic-studio/studio-api/internal/models"
)

type ItemStore struct {
	db *gorm.DB
}

func NewItemStore(db *gorm.DB) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

func (s *ItemStore) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *ItemStore) Create(ctx context.Context, item *models.Item) error {
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// CreateBatch inserts items in one statement.
func (s *ItemStore) CreateBatch(ctx context.Context, items []models.Item) error {
	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("create items: %w", err)
	}
	return nil
}

func (s *ItemStore) SetCompleted(ctx context.Context, id uint, completed bool) error {
	res := s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Update("is_completed", completed)
	if res.Error != nil {
		return fmt.Errorf("update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Toggle flips the completed flag of one item.
func (s *ItemStore) Toggle(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Update("is_completed", gorm.Expr("NOT is_completed"))
	if res.Error != nil {
		return fmt.Errorf("toggle item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ItemStore) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Item{}, id).Error; err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
