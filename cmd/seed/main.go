package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/logging"
	"fintrack/internal/repository"
	"fintrack/internal/seed"
)

func main() {
	entries := flag.Int("entries", 0, "number of random entries to add for the root user")
	flag.Parse()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	logrus.Info("Starting seed script...")

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}
	logrus.Info("Database migrations completed")

	seeder := seed.New(
		repository.NewUserRepository(gormDB),
		repository.NewCategoryRepository(gormDB),
		repository.NewEntryRepository(gormDB),
	)
	result, err := seeder.Run(context.Background(), seed.Options{
		RootPassword: cfg.RootUserPassword,
		Entries:      *entries,
	})
	if err != nil {
		logrus.Fatalf("Failed to seed: %v", err)
	}

	logrus.Infof("Seed completed successfully!")
	logrus.Infof("  - Root user: %s (id %d)", result.User.Email, result.User.ID)
	logrus.Infof("  - New categories created: %d", result.CategoriesCreated)
	logrus.Infof("  - Entries created: %d", result.EntriesCreated)
}
