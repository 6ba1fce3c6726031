package router

import (
	"github.com/assohub/internal/config"
	"github.com/assohub/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, gdb *gorm.DB) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("assohub_session", store))

	api := handler.NewAPI(gdb)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 前台埋点采集接口，由页面脚本即发即弃地调用
	r.POST("/api/analytics/track", api.TrackEvent)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(api.AuthRequired())
		{
			// 统计面板数据，额外要求面板查看权限
			stats := auth.Group("/api")
			stats.Use(api.DashboardViewRequired())
			{
				stats.GET("/analytics", api.GetAnalytics)
			}
		}
	}

	return r
}
