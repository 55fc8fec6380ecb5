package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ecostep_backend/docs"
	"ecostep_backend/internal/middleware"
	"ecostep_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	api := router.Group("/api")
	{
		api.POST("/auth/login", c.auth.Login)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.auth))
		{
			protected.POST("/auth/logout", c.auth.Logout)

			protected.GET("/challenges", c.challenge.List)
			protected.POST("/challenges", c.challenge.Create)
			protected.PATCH("/challenges/:id", c.challenge.Patch)
			protected.DELETE("/challenges/:id", c.challenge.Delete)

			protected.GET("/reports/pending", c.report.Pending)
			protected.POST("/reports/resolve", c.report.Resolve)

			protected.POST("/broadcast", c.broadcast.Send)

			protected.GET("/logs", c.logs.List)
		}
	}
}
