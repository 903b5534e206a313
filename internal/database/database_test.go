package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/config"
	"github.com/magnetic-studio/studio-api/internal/models"
)

func TestConnect_SQLite(t *testing.T) {
	cfg := &config.Config{DatabasePath: ":memory:"}

	db, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)

	for _, m := range []any{&models.Registration{}, &models.Invitation{}, &models.WaitlistEntry{}, &models.Item{}, &models.BeginnersClass{}, &models.BeginnersStudent{}, &models.User{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestConnect_NoDatabaseFallsBackToMemory(t *testing.T) {
	cfg := &config.Config{AppEnv: config.EnvProduction, AppMode: config.ModeComingSoon}

	db, err := Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&models.WaitlistEntry{}))
}
