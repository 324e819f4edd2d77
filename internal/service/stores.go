// Package service holds the application logic between HTTP handlers and
// storage: input validation, existence checks and the two-sided friendship
// and like operations.
package service

import (
	"context"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
)

// FilmStore is implemented by repository.FilmRepo and memstore.Films.
type FilmStore interface {
	GetByID(ctx context.Context, id int64) (model.Film, error)
	GetAll(ctx context.Context) ([]model.Film, error)
	Add(ctx context.Context, film model.Film) (model.Film, error)
	Update(ctx context.Context, film model.Film) (model.Film, error)
	Delete(ctx context.Context, id int64) error
	AddLike(ctx context.Context, filmID, userID int64) (bool, error)
	RemoveLike(ctx context.Context, filmID, userID int64) (bool, error)
	GetMostPopular(ctx context.Context, count int) ([]model.Film, error)
}

// UserStore is implemented by repository.UserRepo and memstore.Users.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
	GetAll(ctx context.Context) ([]model.User, error)
	Add(ctx context.Context, user model.User) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
	Delete(ctx context.Context, id int64) error
	AddFriend(ctx context.Context, userID, otherID int64) (bool, error)
	RemoveFriend(ctx context.Context, userID, otherID int64) (bool, error)
	GetFriends(ctx context.Context, userID int64) ([]model.User, error)
	GetCommonFriends(ctx context.Context, userID, otherID int64) ([]model.User, error)
}

// GenreStore is the read-only genre lookup.
type GenreStore interface {
	GetAll(ctx context.Context) ([]model.Genre, error)
	GetByID(ctx context.Context, id int64) (model.Genre, error)
}

// RatingStore is the read-only rating lookup.
type RatingStore interface {
	GetAll(ctx context.Context) ([]model.Rating, error)
	GetByID(ctx context.Context, id int64) (model.Rating, error)
}

// EventPublisher delivers activity events. *queue.Publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}
