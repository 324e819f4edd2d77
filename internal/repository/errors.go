// Package repository holds the SQL-backed stores. The error types below are
// shared with the in-memory store so handlers can map them to HTTP statuses
// without knowing which backend is active.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound matches any NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists matches any AlreadyExistsError via errors.Is.
var ErrAlreadyExists = errors.New("already exists")

// NotFoundError reports a missing entity by kind and id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AlreadyExistsError is returned by Add when the caller supplies the id of
// an existing row.
type AlreadyExistsError struct {
	Entity string
	ID     int64
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with id %d already exists", e.Entity, e.ID)
}

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// Entity names used in error messages.
const (
	EntityFilm   = "Film"
	EntityUser   = "User"
	EntityGenre  = "Genre"
	EntityRating = "Rating"
)

func notFound(entity string, id int64) error { return &NotFoundError{Entity: entity, ID: id} }

func alreadyExists(entity string, id int64) error {
	return &AlreadyExistsError{Entity: entity, ID: id}
}
