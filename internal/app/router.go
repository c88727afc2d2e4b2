package app

import (
	"runpal_backend/internal/config"
	"runpal_backend/internal/middleware"
	"runpal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/catalog", c.catalog.ListCatalog)
		public.GET("/leaderboard", c.medal.GetLeaderboard)

		// Strava 重定向回来时用户没有带 JWT，身份由 state 还原
		public.GET("/strava/callback", c.strava.Callback)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.POST("/profile/avatar", c.user.UploadAvatar)

		authGroup.GET("/character", c.character.GetCharacter)

		authGroup.POST("/runs", c.run.CreateRun)
		authGroup.GET("/runs", c.run.ListRuns)

		authGroup.GET("/checkin", c.checkin.GetStatus)
		authGroup.POST("/checkin", c.checkin.PerformCheckIn)

		authGroup.GET("/medals/balance", c.medal.GetBalance)
		authGroup.GET("/medals/transactions", c.medal.GetTransactions)
		authGroup.POST("/medals/purchase", c.medal.Purchase)

		authGroup.GET("/inventory", c.catalog.ListInventory)
		authGroup.PUT("/inventory/:id/equip", c.catalog.Equip)

		authGroup.GET("/referrals", c.referral.GetStatus)
		authGroup.POST("/referrals/redeem", c.referral.Redeem)

		authGroup.GET("/strava/connect", c.strava.Connect)
		authGroup.POST("/strava/sync", c.strava.Sync)
	}
}
