package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/magnetic-studio/studio-api/internal/config"
	"github.com/magnetic-studio/studio-api/internal/database"
	"github.com/magnetic-studio/studio-api/internal/logger"
	"github.com/magnetic-studio/studio-api/internal/models"
	"github.com/magnetic-studio/studio-api/internal/store"
)

var sampleItems = []models.Item{
	{Task: "Set up project structure"},
	{Task: "Configure database connection", IsCompleted: true},
	{Task: "Create API endpoints"},
	{Task: "Write unit tests", IsCompleted: true},
	{Task: "Deploy to production"},
}

func main() {
	cfg := config.LoadConfig()

	zl, err := logger.FromAppConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	db, err := database.Connect(cfg, zl)
	if err != nil {
		zl.Fatal("Database unavailable", zap.Error(err))
	}

	zl.Info("Seeding database")
	if err := store.NewItemStore(db).CreateBatch(context.Background(), sampleItems); err != nil {
		zl.Fatal("Seeding failed", zap.Error(err))
	}
	zl.Info("Seeding completed", zap.Int("items", len(sampleItems)))
}
