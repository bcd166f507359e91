package database

import (
	"context"
	"fmt"
	"time"

	"health_metrics_backend/internal/config"
	"health_metrics_backend/internal/model"
	applog "health_metrics_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// InitDB opens the configured database. Driver errors for unique violations
// are translated to gorm.ErrDuplicatedKey.
func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	applog.Log.Info("Database connection established", zap.String("driver", cfg.Driver))
	return db, nil
}

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.UserProfile{},
		&model.MetricType{},
		&model.HealthMetric{},
		&model.Goal{},
	)
	if err != nil {
		return err
	}
	applog.Log.Info("Database migration completed")
	return nil
}

func floatPtr(v float64) *float64 { return &v }

// DefaultMetricTypes is the catalogue installed into an empty database.
func DefaultMetricTypes() []model.MetricType {
	return []model.MetricType{
		{Name: "steps", Unit: "steps", Description: "Daily step count", MinValue: floatPtr(0), MaxValue: floatPtr(100000), IsActive: true},
		{Name: "sleep_hours", Unit: "hours", Description: "Hours of sleep", MinValue: floatPtr(0), MaxValue: floatPtr(24), IsActive: true},
		{Name: "water_intake", Unit: "ml", Description: "Water consumed", MinValue: floatPtr(0), MaxValue: floatPtr(10000), IsActive: true},
		{Name: "weight", Unit: "kg", Description: "Body weight", MinValue: floatPtr(20), MaxValue: floatPtr(500), IsActive: true},
		{Name: "heart_rate", Unit: "bpm", Description: "Resting heart rate", MinValue: floatPtr(30), MaxValue: floatPtr(220), IsActive: true},
	}
}

// SeedDefaults inserts DefaultMetricTypes when the metric_types table is empty.
func SeedDefaults(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.MetricType{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := DefaultMetricTypes()
	if err := db.WithContext(ctx).Create(&defaults).Error; err != nil {
		return err
	}
	applog.Log.Info("Default metric types installed", zap.Int("count", len(defaults)))
	return nil
}
