// Package memstore is an in-memory implementation of the film, user, genre
// and rating stores. It mirrors the SQL repositories' contracts, including
// their error types, and is safe for concurrent use.
package memstore

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/iliyamo/filmorate/internal/model"
)

type set map[int64]struct{}

// Store owns all in-memory state. Use Films, Users, Genres and Ratings to
// get typed views over it.
type Store struct {
	mu sync.RWMutex

	films map[int64]model.Film
	users map[int64]model.User

	filmGenres map[int64]set
	filmLikes  map[int64]set
	friends    map[int64]set

	genres  map[int64]model.Genre
	ratings map[int64]model.Rating

	filmSeq atomic.Int64
	userSeq atomic.Int64
}

// New returns an empty store seeded with the reference genres and ratings.
func New() *Store {
	s := &Store{
		films:      make(map[int64]model.Film),
		users:      make(map[int64]model.User),
		filmGenres: make(map[int64]set),
		filmLikes:  make(map[int64]set),
		friends:    make(map[int64]set),
		genres:     make(map[int64]model.Genre),
		ratings:    make(map[int64]model.Rating),
	}
	for i, name := range []string{"Comedy", "Drama", "Cartoon", "Thriller", "Documentary", "Action"} {
		id := int64(i + 1)
		s.genres[id] = model.Genre{ID: id, Name: name}
	}
	for i, name := range []string{"G", "PG", "PG-13", "R", "NC-17"} {
		id := int64(i + 1)
		s.ratings[id] = model.Rating{ID: id, Name: name}
	}
	return s
}

func (s *Store) Films() *Films     { return &Films{s: s} }
func (s *Store) Users() *Users     { return &Users{s: s} }
func (s *Store) Genres() *Genres   { return &Genres{s: s} }
func (s *Store) Ratings() *Ratings { return &Ratings{s: s} }

// junction adapts one owner->members map to repository.AssociationStore.
// Callers must hold the write lock.
type junction map[int64]set

func (j junction) Current(_ context.Context, ownerID int64) ([]int64, error) {
	return j.sorted(ownerID), nil
}

func (j junction) Insert(_ context.Context, ownerID int64, ids []int64) error {
	m, ok := j[ownerID]
	if !ok {
		m = make(set, len(ids))
		j[ownerID] = m
	}
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return nil
}

func (j junction) Delete(_ context.Context, ownerID int64, ids []int64) error {
	m := j[ownerID]
	for _, id := range ids {
		delete(m, id)
	}
	if len(m) == 0 {
		delete(j, ownerID)
	}
	return nil
}

func (j junction) contains(ownerID, memberID int64) bool {
	_, ok := j[ownerID][memberID]
	return ok
}

func (j junction) sorted(ownerID int64) []int64 {
	out := make([]int64, 0, len(j[ownerID]))
	for id := range j[ownerID] {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// dropMember removes memberID from every owner.
func (j junction) dropMember(memberID int64) {
	for owner, m := range j {
		delete(m, memberID)
		if len(m) == 0 {
			delete(j, owner)
		}
	}
}
