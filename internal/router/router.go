// Package router wires the HTTP handlers onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/filmorate/internal/handler"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Films   *handler.FilmHandler
	Users   *handler.UserHandler
	Lookups *handler.LookupHandler
	// DB is pinged by /healthz when set.
	DB handler.Pinger
	// Gatherer backs /metrics. When nil the endpoint is not mounted.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes mounts the film, user, lookup and operational routes.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health(h.DB))
	if h.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}

	films := e.Group("/films")
	films.GET("", h.Films.List)
	films.POST("", h.Films.Create)
	films.PUT("", h.Films.Update)
	films.GET("/popular", h.Films.Popular)
	films.GET("/:id", h.Films.Get)
	films.DELETE("/:id", h.Films.Delete)
	films.PUT("/:id/like/:userId", h.Films.AddLike)
	films.DELETE("/:id/like/:userId", h.Films.RemoveLike)

	users := e.Group("/users")
	users.GET("", h.Users.List)
	users.POST("", h.Users.Create)
	users.PUT("", h.Users.Update)
	users.GET("/:id", h.Users.Get)
	users.DELETE("/:id", h.Users.Delete)
	users.GET("/:id/friends", h.Users.Friends)
	users.PUT("/:id/friends/:friendId", h.Users.AddFriend)
	users.DELETE("/:id/friends/:friendId", h.Users.RemoveFriend)
	users.GET("/:id/friends/common/:otherId", h.Users.CommonFriends)

	e.GET("/genres", h.Lookups.Genres)
	e.GET("/genres/:id", h.Lookups.Genre)
	e.GET("/mpa", h.Lookups.Ratings)
	e.GET("/mpa/:id", h.Lookups.Rating)
}
