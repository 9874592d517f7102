// Package main applies migrations and inserts the default categories.
package main

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/macerhappen/backend/config"
	"github.com/macerhappen/backend/internal/categories"
	"github.com/macerhappen/backend/internal/models"
	"github.com/macerhappen/backend/pkg/database"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	added, err := categories.NewRepository(pool).Seed(ctx, models.DefaultCategories)
	if err != nil {
		logger.Fatal("seed categories", zap.Error(err))
	}
	logger.Info("categories seeded", zap.Int("added", added), zap.Int("total", len(models.DefaultCategories)))
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
