package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/service"
)

// UserHandler serves /users and the friendship routes.
type UserHandler struct {
	Users *service.UserService
	Log   zerolog.Logger
}

// NewUserHandler panics if svc is nil.
func NewUserHandler(svc *service.UserService, log zerolog.Logger) *UserHandler {
	if svc == nil {
		panic("nil service passed to NewUserHandler")
	}
	return &UserHandler{Users: svc, Log: log}
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.GetAll(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	user, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c echo.Context) error {
	var body model.User
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	user, err := h.Users.Add(c.Request().Context(), body)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	var body model.User
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	user, err := h.Users.Update(c.Request().Context(), body)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddFriend handles PUT /users/:id/friends/:friendId.
func (h *UserHandler) AddFriend(c echo.Context) error {
	id, ok1 := pathID(c, "id")
	friendID, ok2 := pathID(c, "friendId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	changed, err := h.Users.AddFriend(c.Request().Context(), id, friendID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	msg := "friend added"
	if !changed {
		msg = "already friends"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// RemoveFriend handles DELETE /users/:id/friends/:friendId.
func (h *UserHandler) RemoveFriend(c echo.Context) error {
	id, ok1 := pathID(c, "id")
	friendID, ok2 := pathID(c, "friendId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	changed, err := h.Users.RemoveFriend(c.Request().Context(), id, friendID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	msg := "friend removed"
	if !changed {
		msg = "not friends"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// Friends handles GET /users/:id/friends.
func (h *UserHandler) Friends(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	users, err := h.Users.GetFriends(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, users)
}

// CommonFriends handles GET /users/:id/friends/common/:otherId.
func (h *UserHandler) CommonFriends(c echo.Context) error {
	id, ok1 := pathID(c, "id")
	otherID, ok2 := pathID(c, "otherId")
	if !ok1 || !ok2 {
		return badRequest(c, "invalid id")
	}
	users, err := h.Users.GetCommonFriends(c.Request().Context(), id, otherID)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, users)
}
