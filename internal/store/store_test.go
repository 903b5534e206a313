package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/magnetic-studio/studio-api/internal/database"
	"github.com/magnetic-studio/studio-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to connect database")
	require.NoError(t, database.Migrate(db))
	return db
}

func TestRegistrationStore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	invitations := NewInvitationStore(db)
	registrations := NewRegistrationStore(db)

	inv, err := invitations.Create(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)

	count, err := registrations.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	iban := "ES9121000418450200051332"
	id, err := registrations.Create(ctx, inv.ID, models.RegistrationFields{
		Name:        "Ana",
		Surnames:    "Ruiz",
		DNI:         "12345678Z",
		Email:       "a@b.com",
		BirthDate:   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		IBAN:        &iban,
		AcceptTerms: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	count, err = registrations.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	all, err := registrations.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, inv.ID, all[0].InvitationID)
	require.NotNil(t, all[0].IBAN)
	assert.Equal(t, iban, *all[0].IBAN)
	assert.Nil(t, all[0].ParentName)
}

func TestInvitationStore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	s := NewInvitationStore(db)
	now := time.Now()

	_, err := s.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	expired, err := s.Create(ctx, now.Add(-time.Minute))
	require.NoError(t, err)
	db.Model(&models.Invitation{}).Where("id = ?", expired.ID).Update("created_at", now.Add(-time.Hour))

	fresh, err := s.Create(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, expired.ID, fresh.ID)

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, latest.ID)

	n, err := s.ExpireBefore(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Get(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, got.IsValid)

	got, err = s.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, got.IsValid)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWaitlistStore(t *testing.T) {
	ctx := context.Background()
	s := NewWaitlistStore(newTestDB(t))

	exists, err := s.Exists(ctx, "a@b.com")
	require.NoError(t, err)
	assert.False(t, exists)

	entry, err := s.Add(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", entry.Email)

	exists, err = s.Exists(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = s.Add(ctx, "a@b.com")
	assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)
}

func TestItemStore(t *testing.T) {
	ctx := context.Background()
	s := NewItemStore(newTestDB(t))

	require.NoError(t, s.CreateBatch(ctx, []models.Item{{Task: "one"}, {Task: "two", IsCompleted: true}}))
	item := models.Item{Task: "three"}
	require.NoError(t, s.Create(ctx, &item))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, s.SetCompleted(ctx, item.ID, true))
	assert.ErrorIs(t, s.SetCompleted(ctx, 999, true), ErrNotFound)

	items, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.True(t, items[2].IsCompleted)

	require.NoError(t, s.Toggle(ctx, items[0].ID))
	assert.ErrorIs(t, s.Toggle(ctx, 999), ErrNotFound)
	items, err = s.List(ctx)
	require.NoError(t, err)
	assert.True(t, items[0].IsCompleted)
	assert.True(t, items[1].IsCompleted)

	require.NoError(t, s.Toggle(ctx, items[1].ID))
	items, err = s.List(ctx)
	require.NoError(t, err)
	assert.False(t, items[1].IsCompleted)

	require.NoError(t, s.Delete(ctx, item.ID))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestBeginnersStore(t *testing.T) {
	ctx := context.Background()
	s := NewBeginnersStore(newTestDB(t))

	sunday := models.BeginnersClass{Name: "Domingo", Weekday: time.Sunday, StartTime: "10:00"}
	mondayLate := models.BeginnersClass{Name: "Lunes tarde", Weekday: time.Monday, StartTime: "19:00"}
	mondayEarly := models.BeginnersClass{Name: "Lunes mañana", Weekday: time.Monday, StartTime: "09:30"}
	for _, c := range []*models.BeginnersClass{&sunday, &mondayLate, &mondayEarly} {
		require.NoError(t, s.CreateClass(ctx, c))
	}

	classes, err := s.ListClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 3)
	assert.Equal(t, []string{"Lunes mañana", "Lunes tarde", "Domingo"}, []string{classes[0].Name, classes[1].Name, classes[2].Name})

	paid := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	student := models.BeginnersStudent{ClassID: mondayLate.ID, FullName: "Alex", PaymentDate: paid, BonusFrom: paid, BonusTo: paid.AddDate(0, 1, 0)}
	require.NoError(t, s.CreateStudent(ctx, &student))

	orphan := models.BeginnersStudent{ClassID: 999, FullName: "Nadie"}
	assert.ErrorIs(t, s.CreateStudent(ctx, &orphan), ErrNotFound)

	student.FullName = "Alex Pérez"
	require.NoError(t, s.UpdateStudent(ctx, student.ID, student))
	assert.ErrorIs(t, s.UpdateStudent(ctx, 999, student), ErrNotFound)

	withStudents, err := s.ListClassesWithStudents(ctx)
	require.NoError(t, err)
	require.Len(t, withStudents[1].Students, 1)
	assert.Equal(t, "Alex Pérez", withStudents[1].Students[0].FullName)

	require.NoError(t, s.DeleteClass(ctx, mondayLate.ID))
	withStudents, err = s.ListClassesWithStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, withStudents, 2)

	require.NoError(t, s.DeleteStudent(ctx, student.ID))
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(newTestDB(t))

	user := models.User{Name: "Ana", Email: "a@b.com", PasswordHash: "x"}
	require.NoError(t, s.Create(ctx, &user))

	dup := models.User{Name: "Other", Email: "a@b.com"}
	assert.ErrorIs(t, s.Create(ctx, &dup), ErrDuplicate)

	got, err := s.ByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = s.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = s.ByEmail(ctx, "missing@b.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
