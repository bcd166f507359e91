// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"health_metrics_backend/internal/model"
	"health_metrics_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with every table migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Date builds a UTC calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func CreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cure-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     model.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateAdmin(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := CreateUser(t, db, username)
	require.NoError(t, db.Model(user).Update("role", model.RoleAdmin).Error)
	user.Role = model.RoleAdmin
	return user
}

// Bound is shorthand for optional metric type bounds.
func Bound(v float64) *float64 { return &v }

func CreateMetricType(t *testing.T, db *gorm.DB, name, unit string, min, max *float64) *model.MetricType {
	t.Helper()
	mt := &model.MetricType{
		Name:     name,
		Unit:     unit,
		MinValue: min,
		MaxValue: max,
		IsActive: true,
	}
	require.NoError(t, db.Create(mt).Error)
	return mt
}

func CreateObservation(t *testing.T, db *gorm.DB, userID, metricTypeID uint, value float64, day time.Time) *model.HealthMetric {
	t.Helper()
	m := &model.HealthMetric{
		UserID:       userID,
		MetricTypeID: metricTypeID,
		Value:        value,
		RecordedDate: day,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}
