package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/siteframe/internal/apipaths"
	"github.com/siteframe/internal/constants"
)

// setupRoutes configures all routes. Static conventions run as middleware
// ahead of these.
func (s *Server) setupRoutes() {
	// go-pkgz/auth expects paths relative to mount point, so we strip /auth prefix
	if s.authService != nil {
		authHandler, avatarHandler := s.authService.Handlers()
		if authHandler != nil {
			s.engine.Any(apipaths.OAuthMount+"/*path", wrapAuthHandler(authHandler, apipaths.OAuthMount))
		}
		if avatarHandler != nil {
			s.engine.Any(apipaths.Avatar+"/*path", wrapAuthHandler(avatarHandler, apipaths.Avatar))
		}
	}

	// Health check endpoint (no auth required)
	s.engine.GET(apipaths.Health, s.health)

	s.engine.POST(apipaths.Login, s.login)
	s.engine.GET(apipaths.Logout, s.logout)
	s.engine.POST(apipaths.Logout, s.logout)

	s.engine.GET(apipaths.Me, s.requireAuth(), s.getCurrentUser)

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})
}

func (s *Server) health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":      constants.HealthStatusHealthy,
		"service":     constants.ServiceName,
		"conventions": s.conventions.Len(),
	}
	if err := s.database.HealthCheck(c.Request.Context(), constants.DatabaseLockTimeout); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
	}
	c.JSON(status, body)
}

// wrapAuthHandler wraps an http.Handler for use with Gin, stripping the prefix
// go-pkgz/auth expects paths relative to where it's mounted
func wrapAuthHandler(handler http.Handler, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		originalPath := c.Request.URL.Path
		c.Request.URL.Path = strings.TrimPrefix(originalPath, prefix)

		handler.ServeHTTP(c.Writer, c.Request)

		c.Request.URL.Path = originalPath
	}
}
