package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health_metrics_backend/internal/config"
	"health_metrics_backend/internal/controller"
	"health_metrics_backend/internal/middleware"
	"health_metrics_backend/internal/repository"
	"health_metrics_backend/internal/service"
	"health_metrics_backend/internal/util"
	"health_metrics_backend/pkg/configwatcher"
	"health_metrics_backend/pkg/database"
	"health_metrics_backend/pkg/logger"
	"health_metrics_backend/pkg/monitoring"
	"health_metrics_backend/pkg/security"
	"health_metrics_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Clock    util.Clock
	Services *Services

	rateLimiter     *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

// Deps are the external resources an App is built on. Tests pass an
// in-memory database and a fixed clock.
type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Blacklist repository.TokenBlacklist
	Clock     util.Clock
}

type repositories struct {
	user         *repository.UserRepository
	profile      *repository.ProfileRepository
	metricType   *repository.MetricTypeRepository
	healthMetric *repository.HealthMetricRepository
	goal         *repository.GoalRepository
}

type Services struct {
	Auth         *service.AuthService
	Profile      *service.ProfileService
	MetricType   *service.MetricTypeService
	HealthMetric *service.HealthMetricService
	Goal         *service.GoalService
	Dashboard    *service.DashboardService
	Storage      *service.StorageService
	Export       *service.ExportService
	Seed         *service.SeedService
}

type controllers struct {
	auth         *controller.AuthController
	profile      *controller.ProfileController
	metricType   *controller.MetricTypeController
	healthMetric *controller.HealthMetricController
	goal         *controller.GoalController
	dashboard    *controller.DashboardController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		profile:      repository.NewProfileRepository(db),
		metricType:   repository.NewMetricTypeRepository(db),
		healthMetric: repository.NewHealthMetricRepository(db),
		goal:         repository.NewGoalRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, blacklist repository.TokenBlacklist) (*Services, error) {
	s := &Services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.Storage = storage

	s.Auth = service.NewAuthService(db, repos.user, repos.profile, blacklist, cfg)
	s.Profile = service.NewProfileService(repos.profile, repos.user)
	s.MetricType = service.NewMetricTypeService(repos.metricType)
	s.HealthMetric = service.NewHealthMetricService(repos.healthMetric, repos.metricType)
	s.Goal = service.NewGoalService(repos.goal, repos.metricType, repos.healthMetric)
	s.Dashboard = service.NewDashboardService(repos.healthMetric, s.Goal)
	s.Export = service.NewExportService(repos.healthMetric, s.Storage)
	s.Seed = service.NewSeedService(repos.metricType)

	return s, nil
}

func (a *App) initControllers(s *Services) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.Auth),
		profile:      controller.NewProfileController(s.Profile, a.Clock),
		metricType:   controller.NewMetricTypeController(s.MetricType),
		healthMetric: controller.NewHealthMetricController(s.HealthMetric, s.Export, a.Clock),
		goal:         controller.NewGoalController(s.Goal, a.Clock),
		dashboard:    controller.NewDashboardController(s.Dashboard, a.Clock),
		health:       controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	a.rateLimiter = security.NewRateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	router.Use(a.rateLimiter.Middleware())

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(cfg.Tracing.ServiceName))
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp connects to the configured database and Redis, migrates and seeds
// when allowed, and builds the router. Startup failures are fatal.
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		if err := database.SeedDefaults(context.Background(), db); err != nil {
			logger.Log.Fatal("Failed to seed metric types", zap.Error(err))
		}
	}

	deps := Deps{DB: db}
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		deps.Redis = rdb
		deps.Blacklist = repository.NewRedisTokenBlacklist(rdb)
	}

	app, err := NewAppWithDeps(cfg, deps)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(context.Background(), &cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

// NewAppWithDeps wires repositories, services and routes on top of deps.
// Missing Blacklist and Clock default to the in-memory list and the server
// timezone clock.
func NewAppWithDeps(cfg *config.Config, deps Deps) (*App, error) {
	if deps.Blacklist == nil {
		deps.Blacklist = repository.NewMemoryTokenBlacklist()
	}
	if deps.Clock == nil {
		loc, err := time.LoadLocation(cfg.Server.Timezone)
		if err != nil {
			return nil, err
		}
		deps.Clock = util.NewClock(loc)
	}

	app := &App{
		Config: cfg,
		DB:     deps.DB,
		Redis:  deps.Redis,
		Clock:  deps.Clock,
	}

	repos := app.initRepositories(deps.DB)
	services, err := app.initServices(repos, cfg, deps.DB, deps.Blacklist)
	if err != nil {
		return nil, err
	}
	app.Services = services
	controllers := app.initControllers(services)

	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/files", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg.Server.Mode)
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.rateLimiter.Update(newCfg.RateLimit.MaxRequests, time.Duration(newCfg.RateLimit.WindowMinutes)*time.Minute)
	})

	return app, nil
}

func (a *App) reloadConfig(newCfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(newCfg)
	}
}

// Close releases background resources without serving.
func (a *App) Close() {
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func (a *App) Run(configDir string) {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := configwatcher.WatchConfig(watchCtx, configDir, a.reloadConfig); err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	stopWatch()
	a.Close()
	logger.Log.Info("Server exiting")
}
