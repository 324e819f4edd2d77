package memstore

import (
	"context"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/repository"
)

// Genres is the read-only genre view of a Store.
type Genres struct {
	s *Store
}

func (g *Genres) GetAll(_ context.Context) ([]model.Genre, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	out := make([]model.Genre, 0, len(g.s.genres))
	for _, id := range sortedKeys(g.s.genres) {
		out = append(out, g.s.genres[id])
	}
	return out, nil
}

func (g *Genres) GetByID(_ context.Context, id int64) (model.Genre, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	genre, ok := g.s.genres[id]
	if !ok {
		return model.Genre{}, &repository.NotFoundError{Entity: repository.EntityGenre, ID: id}
	}
	return genre, nil
}

// Ratings is the read-only rating view of a Store.
type Ratings struct {
	s *Store
}

func (r *Ratings) GetAll(_ context.Context) ([]model.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Rating, 0, len(r.s.ratings))
	for _, id := range sortedKeys(r.s.ratings) {
		out = append(out, r.s.ratings[id])
	}
	return out, nil
}

func (r *Ratings) GetByID(_ context.Context, id int64) (model.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rating, ok := r.s.ratings[id]
	if !ok {
		return model.Rating{}, &repository.NotFoundError{Entity: repository.EntityRating, ID: id}
	}
	return rating, nil
}
