package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/pscheid92/socialpulse/internal/errors"
	"github.com/pscheid92/socialpulse/internal/ingest"
)

func (s *Server) handleSubmitPost(c echo.Context) error {
	var sub ingest.Submission
	if err := c.Bind(&sub); err != nil {
		return apperrors.ValidationError("malformed request body")
	}

	postID, err := s.coordinator.SubmitPost(c.Request().Context(), sub)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"post_id": postID.String(),
	})
}
