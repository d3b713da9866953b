package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"schedule-planner/config"
	"schedule-planner/internal/api/handler"
	"schedule-planner/internal/api/middleware"
	"schedule-planner/pkg/jwt"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流；gatherer 为 nil 时使用全局 Registry
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	limiter middleware.RateLimiter,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 运维端点 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler(gatherer))

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 会话（无需认证）
		v1.POST("/sessions", middleware.RateLimit(limiter, cfg.Server.RateLimit, time.Minute), h.Session.StartSession)

		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(jwtMgr))
		{
			// 偏好模块
			prefs := authorized.Group("/preferences")
			{
				prefs.GET("", h.Preference.GetPreferences)
				prefs.PUT("", h.Preference.SavePreferences)
				prefs.PATCH("", h.Preference.UpdatePreferenceField)
				prefs.DELETE("", h.Preference.ResetPreferences)
			}

			// 课表模块
			schedules := authorized.Group("/schedules")
			{
				schedules.POST("/generate", middleware.RateLimit(limiter, cfg.Server.RateLimit, time.Minute), h.Schedule.GenerateSchedule)
				schedules.GET("", h.Schedule.ListHistory)
				schedules.GET("/latest", h.Schedule.GetLatestSchedule)
				schedules.GET("/latest/slots/:day/:period", h.Schedule.GetSlot)
			}

			authorized.GET("/catalog", h.Schedule.GetCatalog)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/schedule.xlsx", h.Export.ExportXLSX)
				export.GET("/schedule.ics", h.Export.ExportICS)
			}
		}
	}

	return r
}
