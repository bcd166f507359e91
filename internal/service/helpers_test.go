package service

import (
	"testing"

	"health_metrics_backend/internal/config"
	"health_metrics_backend/internal/model"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/testutil"

	"gorm.io/gorm"
)

type testServices struct {
	db         *gorm.DB
	auth       *AuthService
	profile    *ProfileService
	metricType *MetricTypeService
	metric     *HealthMetricService
	goal       *GoalService
	dashboard  *DashboardService
	export     *ExportService
	seed       *SeedService
	blacklist  *repository.MemoryTokenBlacklist
	storageDir string
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: "test", Timezone: "UTC"},
		JWT:     config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireHours: 1},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := testConfig(t)

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	metricTypeRepo := repository.NewMetricTypeRepository(db)
	metricRepo := repository.NewHealthMetricRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	blacklist := repository.NewMemoryTokenBlacklist()

	storage, err := NewStorageService(cfg)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	goal := NewGoalService(goalRepo, metricTypeRepo, metricRepo)
	return &testServices{
		db:         db,
		auth:       NewAuthService(db, userRepo, profileRepo, blacklist, cfg),
		profile:    NewProfileService(profileRepo, userRepo),
		metricType: NewMetricTypeService(metricTypeRepo),
		metric:     NewHealthMetricService(metricRepo, metricTypeRepo),
		goal:       goal,
		dashboard:  NewDashboardService(metricRepo, goal),
		export:     NewExportService(metricRepo, storage),
		seed:       NewSeedService(metricTypeRepo),
		blacklist:  blacklist,
		storageDir: cfg.Storage.LocalPath,
	}
}

func ownerOf(u *model.User) Owner {
	return Owner{ID: u.ID, Username: u.Username}
}

func f64(v float64) *float64 { return &v }

func str(s string) *string { return &s }
