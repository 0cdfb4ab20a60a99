package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/learn2pay/backend/internal/domain/activity"
	"github.com/learn2pay/backend/internal/domain/crm"
	"github.com/learn2pay/backend/internal/domain/fees"
	"github.com/learn2pay/backend/internal/domain/identity"
	"github.com/learn2pay/backend/internal/domain/onboarding"
	"github.com/learn2pay/backend/internal/infrastructure/config"
	"github.com/learn2pay/backend/internal/infrastructure/logger"
	"github.com/learn2pay/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(config.LogConfig{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Running schema migration",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	if err := db.DB.AutoMigrate(
		&fees.FeeStructure{},
		&fees.StudentFeeLedger{},
		&crm.Lead{},
		&onboarding.OnboardingCase{},
		&activity.ActivityLog{},
		&identity.InstituteUser{},
	); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	log.Info("Migration completed successfully")
}
