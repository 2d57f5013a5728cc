package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Write path, rate limited per client IP
	s.echo.POST("/api/posts", s.handleSubmitPost,
		newRateLimiter(s.config.IngestRatePerSecond, s.config.IngestRateBurst))

	// Read path
	s.echo.GET("/api/dashboard", s.handleDashboard)
	s.echo.GET("/api/analytics/platforms", s.handlePlatformEngagement)
	s.echo.GET("/api/analytics/hashtags", s.handleTopHashtags)
}
