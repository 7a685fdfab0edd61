package app

import (
	"quizdeck_backend/docs"
	"quizdeck_backend/internal/config"
	"quizdeck_backend/internal/middleware"
	"quizdeck_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/auth/github/login", c.auth.Login)
		public.GET("/auth/github/callback", c.auth.Callback)
	}

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.Profile)

		// 白名单内的用户才能进入测验相关功能
		gated := authGroup.Group("/")
		gated.Use(middleware.GateMiddleware())
		{
			gated.POST("/quiz/generate", c.quiz.Generate)
			gated.GET("/quiz/questions", c.quiz.Questions)
			gated.POST("/quiz/submit", c.quiz.Submit)
			gated.POST("/quiz/satisfaction", c.quiz.Satisfaction)

			gated.GET("/analytics", c.analytics.Summary)

			gated.GET("/history", c.history.List)
			gated.PATCH("/history/:id/satisfaction", c.history.SetSatisfaction)
			gated.DELETE("/history/:id", c.history.Delete)

			gated.GET("/questions", c.question.Proxy)
			gated.GET("/categories", c.question.Categories)

			gated.POST("/admin/questions/import", c.question.Import)
		}
	}
}
