package app

import (
	"health_metrics_backend/docs"
	"health_metrics_backend/internal/config"
	"health_metrics_backend/internal/middleware"
	"health_metrics_backend/internal/model"
	"health_metrics_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *Services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/", c.health.Root)

	api := router.Group("/api/v1")

	// 1. public
	a.registerPublicRoutes(api, c)

	// 2. authenticated
	authGroup := api.Group("")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret, s.Auth))
	{
		a.registerUserRoutes(authGroup, c)
	}

	// 3. admin
	a.registerAdminRoutes(authGroup, c)
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/health", c.health.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/register", c.auth.Register)
		auth.POST("/token", c.auth.Login)
	}
}

func (a *App) registerUserRoutes(group *gin.RouterGroup, c *controllers) {
	auth := group.Group("/auth")
	{
		auth.POST("/logout", c.auth.Logout)
		auth.GET("/me", c.auth.Me)
	}

	metricTypes := group.Group("/metric-types")
	{
		metricTypes.GET("", c.metricType.List)
		metricTypes.GET("/:id", c.metricType.Get)
	}

	metrics := group.Group("/metrics")
	{
		metrics.GET("", c.healthMetric.List)
		metrics.POST("", c.healthMetric.Create)
		metrics.GET("/summary", c.healthMetric.Summary)
		metrics.GET("/trends", c.healthMetric.Trends)
		metrics.POST("/export", c.healthMetric.Export)
		metrics.DELETE("/export/:file", c.healthMetric.DeleteExport)
		metrics.GET("/:id", c.healthMetric.Get)
		metrics.PUT("/:id", c.healthMetric.Update)
		metrics.PATCH("/:id", c.healthMetric.Update)
		metrics.DELETE("/:id", c.healthMetric.Delete)
	}

	goals := group.Group("/goals")
	{
		goals.GET("", c.goal.List)
		goals.POST("", c.goal.Create)
		goals.GET("/active", c.goal.Active)
		goals.GET("/:id", c.goal.Get)
		goals.PUT("/:id", c.goal.Update)
		goals.PATCH("/:id", c.goal.Update)
		goals.POST("/:id/deactivate", c.goal.Deactivate)
	}

	group.GET("/dashboard", c.dashboard.GetDashboard)

	profile := group.Group("/profile")
	{
		profile.GET("", c.profile.Get)
		profile.PUT("", c.profile.Update)
		profile.PATCH("", c.profile.Update)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/metric-types")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("", c.metricType.Create)
		admin.PUT("/:id", c.metricType.Update)
		admin.PATCH("/:id", c.metricType.Update)
		admin.DELETE("/:id", c.metricType.Delete)
	}
}
