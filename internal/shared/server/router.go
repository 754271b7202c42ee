package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medvault-backend/internal/shared/config"
	"medvault-backend/internal/shared/metrics"
	"medvault-backend/internal/shared/server/middleware"
	"medvault-backend/internal/shared/server/respond"
)

// RouteRegistrar is implemented by feature handlers that mount routes on the
// API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config         config.Config
	RecordsHandler RouteRegistrar
	AIHandler      RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rule:   middleware.RateLimitRule{Rate: 10, Burst: 30},
		KeyFor: middleware.UserIDKey,
	}))
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.RecordsHandler != nil {
		deps.RecordsHandler.RegisterRoutes(api)
	}
	if deps.AIHandler != nil {
		deps.AIHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
