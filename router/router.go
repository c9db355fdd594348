package router

import (
	"net/http"

	"github.com/NomadCrew/nomad-crew-newsletter/config"
	_ "github.com/NomadCrew/nomad-crew-newsletter/docs"
	"github.com/NomadCrew/nomad-crew-newsletter/handlers"
	"github.com/NomadCrew/nomad-crew-newsletter/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies holds everything SetupRouter needs.
type Dependencies struct {
	Config              *config.Config
	HealthHandler       *handlers.HealthHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	// RedisClient backs the sign-up rate limiter. Nil disables rate limiting.
	RedisClient redis.Cmdable
	// MetricsHandler serves /metrics. Defaults to promhttp.Handler().
	MetricsHandler http.Handler
	Logger         *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	// Client IPs come from the socket; forwarded headers are not trusted.
	_ = r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.Server.Environment))
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.ErrorHandler())

	metrics := deps.MetricsHandler
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	r.GET("/health_check", deps.HealthHandler.HealthCheck)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(metrics))
	if !deps.Config.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	subscribe := []gin.HandlerFunc{deps.SubscriptionHandler.Subscribe}
	if deps.RedisClient != nil {
		limiter := middleware.SubscribeRateLimiter(
			deps.RedisClient,
			deps.Config.RateLimit.SubscribeRequestsPerMinute,
			deps.Config.RateLimit.Window(),
		)
		subscribe = append([]gin.HandlerFunc{limiter}, subscribe...)
	}
	r.POST("/subscriptions", subscribe...)

	return r
}
