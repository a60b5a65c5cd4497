package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"relo-assistant/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	sessionH *SessionHandler,
	settingsH *SettingsHandler,
	tokens *service.SessionTokens,
	limiter service.RateLimiter,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", settingsH.Health)

	settings := r.Group("/settings")
	settings.PUT("/llm", settingsH.UpdateLLM)
	settings.GET("/models", settingsH.ListModels)

	r.POST("/sessions", sessionH.CreateSession)

	sess := r.Group("/sessions/:id", SessionAuthMiddleware(tokens))
	sess.GET("", sessionH.GetSession)
	sess.DELETE("", sessionH.DeleteSession)
	sess.POST("/intents", RateLimitMiddleware(limiter), sessionH.PostIntent)
	sess.POST("/messages", RateLimitMiddleware(limiter), sessionH.PostMessage)
	sess.POST("/threads/:threadId/activate", sessionH.ActivateThread)
	sess.GET("/events", sessionH.Events)

	return r
}

// WithCORS envuelve el engine con la politica CORS de los origenes permitidos.
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	})(h)
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
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
