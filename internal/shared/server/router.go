// Package server assembles the HTTP surface: middleware chain, public
// endpoints and the authenticated API group.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/render"
	"tailor-backend/internal/shared/auth"
	"tailor-backend/internal/shared/config"
	"tailor-backend/internal/shared/metrics"
	"tailor-backend/internal/shared/server/middleware"
	"tailor-backend/internal/tailorings"
)

// RouterDeps carries everything the router needs to assemble routes.
type RouterDeps struct {
	Config     config.Config
	Verifier   auth.Verifier
	Tailorings *tailorings.Handler
	Render     *render.Handler
}

// NewRouter builds the gin engine with the full middleware chain. Health
// and metrics stay outside the auth group; everything under /api/v1
// requires a resolved identity.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(deps.Config.CORSAllowOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(deps.Verifier))
	deps.Tailorings.RegisterRoutes(api)
	deps.Render.RegisterRoutes(api)

	return r
}

// Addr formats a listen address for the given port.
func Addr(port string) string {
	return ":" + port
}
