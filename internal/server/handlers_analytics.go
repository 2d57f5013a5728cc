package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/socialpulse/internal/errors"
)

func (s *Server) handleDashboard(c echo.Context) error {
	snapshot, err := s.aggregator.ComputeDashboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardView(snapshot))
}

func (s *Server) handlePlatformEngagement(c echo.Context) error {
	result, err := s.aggregator.ComputePlatformEngagement(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleTopHashtags(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return apperrors.ValidationError("limit must be a positive integer").WithField("limit", raw)
		}
		limit = parsed
	}

	hashtags, err := s.aggregator.ComputeTopHashtags(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hashtagViews(hashtags))
}
