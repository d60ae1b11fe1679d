package app

import (
	"gamehub_backend/docs"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/middleware"
	"gamehub_backend/internal/model"

	"gamehub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 开发者投稿接口
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		developer := authGroup.Group("/developer")
		developer.Use(middleware.RoleMiddleware(model.Developer))
		{
			developer.POST("/submissions", c.submission.Create)
			developer.GET("/submissions", c.submission.List)
			developer.GET("/submissions/:id", c.submission.Get)
			developer.PATCH("/submissions/:id", c.submission.Update)
			developer.POST("/submissions/:id/submit", c.submission.Submit)
			developer.DELETE("/submissions/:id", c.submission.Delete)

			developer.POST("/media", c.media.Upload)
		}
	}

	// 3. 管理员审核接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/submissions", c.admin.ListQueue)
		admin.POST("/submissions/:id/decision", c.admin.Decide)
		admin.POST("/submissions/sweep", c.admin.RunSweep)
		admin.POST("/developers/:id/approve", c.admin.ApproveDeveloper)
	}
}
