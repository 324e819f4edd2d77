package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/service"
)

// FilmHandler serves /films.
type FilmHandler struct {
	Films *service.FilmService
	Log   zerolog.Logger
}

// NewFilmHandler panics if svc is nil.
func NewFilmHandler(svc *service.FilmService, log zerolog.Logger) *FilmHandler {
	if svc == nil {
		panic("nil service passed to NewFilmHandler")
	}
	return &FilmHandler{Films: svc, Log: log}
}

// List handles GET /films.
func (h *FilmHandler) List(c echo.Context) error {
	films, err := h.Films.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, films)
}

// Get handles GET /films/:id.
func (h *FilmHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	film, err := h.Films.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, film)
}

// Create handles POST /films.
func (h *FilmHandler) Create(c echo.Context) error {
	var body model.Film
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	film, err := h.Films.Add(c.Request().Context(), body)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, film)
}

// Update handles PUT /films; the id travels in the body.
func (h *FilmHandler) Update(c echo.Context) error {
	var body model.Film
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	film, err := h.Films.Update(c.Request().Context(), body)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, film)
}

// Delete handles DELETE /films/:id.
func (h *FilmHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Films.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddLike handles PUT /films/:id/like/:userId.
func (h *FilmHandler) AddLike(c echo.Context) error {
	filmID, ok1 := pathID(c, "id")
	userID, ok2 := pathID(c, "userId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	changed, err := h.Films.AddLike(c.Request().Context(), filmID, userID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	msg := "like added"
	if !changed {
		msg = "like already present"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// RemoveLike handles DELETE /films/:id/like/:userId.
func (h *FilmHandler) RemoveLike(c echo.Context) error {
	filmID, ok1 := pathID(c, "id")
	userID, ok2 := pathID(c, "userId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	changed, err := h.Films.RemoveLike(c.Request().Context(), filmID, userID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	msg := "like removed"
	if !changed {
		msg = "like not present"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// Popular handles GET /films/popular?count=N (default 10).
func (h *FilmHandler) Popular(c echo.Context) error {
	count := service.DefaultPopularCount
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "count must be an integer")
		}
		count = n
	}
	films, err := h.Films.GetMostPopularFilms(c.Request().Context(), count)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, films)
}
