package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"athena-regress/internal/handler"
	"athena-regress/internal/middleware"
	"athena-regress/pkg/logging"
)

func SetupRoutes(cfg *viper.Viper) *gin.Engine {
	if cfg.GetString("server.mode") == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.GinLogger(), logging.GinRecovery(true)) // 日志中间件，记录请求日志
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowAllOrigins = true
	r.Use(cors.New(corsCfg)) // CORS 跨域中间件，简单粗暴，直接放行所有跨域请求

	// 健康检查和监控端点（不需要认证）
	r.GET("/health", handler.HealthCheckHandler)
	r.GET("/metrics", handler.MetricsHandler)
	r.GET("/system", handler.SystemInfoHandler)
	r.GET("/readiness", handler.ReadinessHandler)
	r.GET("/liveness", handler.LivenessHandler)

	// 令牌刷新不走认证中间件，refresh token 自己就是凭证
	r.POST("/api/v1/token/refresh", handler.RefreshTokenHandler)

	apiV1 := r.Group("/api/v1", middleware.Auth())
	{
		apiV1.POST("/batch/submit", handler.SubmitBatchHandler)
		apiV1.GET("/batch/:id", handler.GetBatchHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"msg": "404",
		})
	})
	return r
}
