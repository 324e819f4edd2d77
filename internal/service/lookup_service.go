package service

import (
	"context"

	"github.com/iliyamo/filmorate/internal/model"
)

// LookupService exposes the genre and rating reference data.
type LookupService struct {
	genres  GenreStore
	ratings RatingStore
}

func NewLookupService(genres GenreStore, ratings RatingStore) *LookupService {
	return &LookupService{genres: genres, ratings: ratings}
}

func (s *LookupService) Genres(ctx context.Context) ([]model.Genre, error) {
	return s.genres.GetAll(ctx)
}

func (s *LookupService) Genre(ctx context.Context, id int64) (model.Genre, error) {
	return s.genres.GetByID(ctx, id)
}

func (s *LookupService) Ratings(ctx context.Context) ([]model.Rating, error) {
	return s.ratings.GetAll(ctx)
}

func (s *LookupService) Rating(ctx context.Context, id int64) (model.Rating, error) {
	return s.ratings.GetByID(ctx, id)
}
