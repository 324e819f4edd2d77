package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/filmorate/internal/service"
)

// LookupHandler serves the read-only /genres and /mpa endpoints.
type LookupHandler struct {
	Lookups *service.LookupService
	Log     zerolog.Logger
}

func NewLookupHandler(svc *service.LookupService, log zerolog.Logger) *LookupHandler {
	if svc == nil {
		panic("nil service passed to NewLookupHandler")
	}
	return &LookupHandler{Lookups: svc, Log: log}
}

func (h *LookupHandler) Genres(c echo.Context) error {
	genres, err := h.Lookups.Genres(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, genres)
}

func (h *LookupHandler) Genre(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	genre, err := h.Lookups.Genre(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, genre)
}

func (h *LookupHandler) Ratings(c echo.Context) error {
	ratings, err := h.Lookups.Ratings(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, ratings)
}

func (h *LookupHandler) Rating(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	rating, err := h.Lookups.Rating(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rating)
}
