// Package handler contains the echo HTTP handlers.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/filmorate/internal/repository"
	"github.com/iliyamo/filmorate/internal/validation"
)

// respondError maps service errors to a status and an {"error": ...} body.
// Unexpected errors are logged with their cause and hidden from the client.
func respondError(c echo.Context, log zerolog.Logger, err error) error {
	var ve *validation.Error
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "fields": ve.Fields})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Request().URL.Path).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// pathID parses an int64 path parameter. Zero and negative ids are passed
// through; they match no row and surface as 404 from the services.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
