package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/magnetic-studio/studio-api/internal/models"
)

type BeginnersStore struct {
	db *gorm.DB
}

func NewBeginnersStore(db *gorm.DB) *BeginnersStore {
	return &BeginnersStore{db: db}
}

func (s *BeginnersStore) ListClasses(ctx context.Context) ([]models.BeginnersClass, error) {
	var classes []models.BeginnersClass
	if err := s.db.WithContext(ctx).Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	SortClasses(classes)
	return classes, nil
}

func (s *BeginnersStore) ListClassesWithStudents(ctx context.Context) ([]models.BeginnersClass, error) {
	var classes []models.BeginnersClass
	if err := s.db.WithContext(ctx).Preload("Students", func(db *gorm.DB) *gorm.DB {
		return db.Order("full_name asc")
	}).Find(&classes).Error; err != nil {
		return nil, fmt.Errorf("list classes with students: %w", err)
	}
	SortClasses(classes)
	return classes, nil
}

func (s *BeginnersStore) CreateClass(ctx context.Context, class *models.BeginnersClass) error {
	if err := s.db.WithContext(ctx).Create(class).Error; err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// DeleteClass removes the class and its students.
func (s *BeginnersStore) DeleteClass(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", id).Delete(&models.BeginnersStudent{}).Error; err != nil {
			return fmt.Errorf("delete class students: %w", err)
		}
		if err := tx.Delete(&models.BeginnersClass{}, id).Error; err != nil {
			return fmt.Errorf("delete class: %w", err)
		}
		return nil
	})
}

func (s *BeginnersStore) CreateStudent(ctx context.Context, student *models.BeginnersStudent) error {
	var class models.BeginnersClass
	if err := s.db.WithContext(ctx).First(&class, student.ClassID).Error; err != nil {
		return translate(err)
	}
	if err := s.db.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// UpdateStudent rewrites the student's own fields; the class cannot change.
func (s *BeginnersStore) UpdateStudent(ctx context.Context, id uint, student models.BeginnersStudent) error {
	res := s.db.WithContext(ctx).Model(&models.BeginnersStudent{}).Where("id = ?", id).Updates(map[string]any{
		"full_name":    student.FullName,
		"payment_date": student.PaymentDate,
		"bonus_from":   student.BonusFrom,
		"bonus_to":     student.BonusTo,
	})
	if res.Error != nil {
		return fmt.Errorf("update student: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BeginnersStore) DeleteStudent(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.BeginnersStudent{}, id).Error; err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// SortClasses orders classes Monday first, then by start time and name.
func SortClasses(classes []models.BeginnersClass) {
	sort.SliceStable(classes, func(i, j int) bool {
		a, b := classes[i], classes[j]
		if da, db := mondayFirst(a.Weekday), mondayFirst(b.Weekday); da != db {
			return da < db
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.Name < b.Name
	})
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}
