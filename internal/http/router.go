package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"campus-identity/internal/domain"
	"campus-identity/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	authH *AuthHandler,
	userH *UserHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery, métricas y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), metricsMiddleware(), jsonContentTypeMiddleware())

	r.GET("/healthz", healthH.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authn := RequireAuth(logger, jwtSvc)

	auth := r.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.GET("/microsoft-login-url", authH.MicrosoftLoginURL)
	auth.GET("/microsoft-callback", authH.MicrosoftCallback)
	auth.GET("/me", authn, authH.Me)

	users := r.Group("/users", authn)
	users.GET("/:id", RequireSelfOrAdmin(logger, "id"), userH.GetUser)
	users.DELETE("/:id", RequireRole(logger, domain.RoleAdmin), userH.DeleteUser)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
// /metrics conserva el formato de exposición de Prometheus.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path != "/metrics" {
			c.Writer.Header().Set("Content-Type", "application/json")
		}
		c.Next()
	}
}
