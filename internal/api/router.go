package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/guttosm/coffeepulse/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Per-IP request budgets.
const (
	APIRateLimit   = 120
	LoginRateLimit = 10
	RateWindow     = time.Minute
	RequestTimeout = 10 * time.Second
)

// NewRouter creates a Gin engine with every route configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Metrics, Recovery, ErrorHandler, CORS).
//   - Adds request timeout handling.
//   - Mounts /metrics and Swagger docs (/swagger/*any).
//   - Configures the status, page and /api/v1 routes; admin routes require a
//     session when login is enabled.
//
// Note:
//   - Health and readiness endpoints are registered in app.InitializeApp().
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:   []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Docs and metrics ─────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── Status and pages ─────────────────────────
	sessions := handler.opts.Sessions
	router.GET("/", handler.GetStatus)
	router.GET("/status", handler.GetStatus)
	router.GET("/login", handler.LoginPage)
	router.POST("/login", middleware.RateLimiter(LoginRateLimit, RateWindow), handler.Login)
	router.GET("/logout", handler.Logout)
	router.GET("/report", middleware.RequireSessionPage(sessions), handler.Dashboard)

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1", middleware.RateLimiter(APIRateLimit, RateWindow))
	{
		v1.GET("/price", handler.GetPrice)
		v1.GET("/history", handler.GetHistory)
		v1.GET("/monthly-trend", handler.GetMonthlyTrend)
		v1.GET("/snapshot", handler.GetSnapshot)
		v1.GET("/login-status", handler.GetLoginStatus)

		admin := v1.Group("", middleware.RequireSessionAPI(sessions))
		admin.DELETE("/sessions", handler.ClearSessions)
		admin.POST("/report/test", handler.SendTestReport)
		admin.GET("/report/smtp-check", handler.CheckSMTP)
		admin.GET("/deliveries", handler.ListDeliveries)
	}

	router.NoRoute(NotFound)

	return router
}
