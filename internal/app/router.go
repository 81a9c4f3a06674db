package app

import (
	"exam_tracker_backend/docs"
	"exam_tracker_backend/internal/util"
	"exam_tracker_backend/pkg/monitoring"
	"exam_tracker_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	api.GET("/health", c.health.HealthCheck)

	a.registerRecordRoutes(api, c)
	a.registerPlanRoutes(api, c)
	a.registerImportRoutes(api, c)

	// 设置
	api.GET("/settings", c.settings.Get)
	api.PUT("/settings", c.settings.Update)

	// 统计与通知
	api.GET("/stats/modules", c.stats.Modules)
	api.GET("/notifications", c.stats.Notifications)
}

func (a *App) registerRecordRoutes(api *gin.RouterGroup, c *controllers) {
	records := api.Group("/records")
	{
		records.GET("", c.record.List)
		records.POST("", c.record.Create)
		records.DELETE("/:id", c.record.Delete)
	}

	knowledge := api.Group("/knowledge")
	{
		knowledge.GET("", c.knowledge.List)
		knowledge.POST("", c.knowledge.Create)
		knowledge.DELETE("/:id", c.knowledge.Delete)
	}
}

func (a *App) registerPlanRoutes(api *gin.RouterGroup, c *controllers) {
	plans := api.Group("/plans")
	{
		plans.GET("", c.plan.List)
		plans.POST("", c.plan.Create)
		plans.PUT("/:id", c.plan.Update)
		plans.DELETE("/:id", c.plan.Delete)
		plans.GET("/:id/progress", c.plan.Progress)
	}
}

func (a *App) registerImportRoutes(api *gin.RouterGroup, c *controllers) {
	// 导入文件单独限制请求体大小
	imports := api.Group("/import")
	{
		imports.POST("", security.BodyLimit(util.MaxImportSize+1<<20), c.imports.Preview)
		imports.POST("/:id/confirm", c.imports.Confirm)
		imports.GET("/:id", c.imports.Pending)
		imports.DELETE("/:id", c.imports.Cancel)
	}

	api.GET("/export", c.imports.Export)

	backups := api.Group("/backups")
	{
		backups.GET("", c.imports.ListBackups)
		backups.POST("", c.imports.Backup)
		backups.POST("/restore", c.imports.Restore)
	}
}
