package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
	"github.com/iliyamo/filmorate/internal/validation"
)

// DefaultPopularCount is used when the caller does not ask for a size.
const DefaultPopularCount = 10

// FilmService manages films and likes.
type FilmService struct {
	films  FilmStore
	users  UserStore
	events EventPublisher
	log    zerolog.Logger
}

// NewFilmService wires a FilmService. events may be nil to disable
// activity events.
func NewFilmService(films FilmStore, users UserStore, events EventPublisher, log zerolog.Logger) *FilmService {
	if films == nil || users == nil {
		panic("nil store passed to NewFilmService")
	}
	return &FilmService{films: films, users: users, events: events, log: log}
}

func (s *FilmService) GetAll(ctx context.Context) ([]model.Film, error) {
	return s.films.GetAll(ctx)
}

func (s *FilmService) GetByID(ctx context.Context, id int64) (model.Film, error) {
	return s.films.GetByID(ctx, id)
}

// Add validates and stores a new film.
func (s *FilmService) Add(ctx context.Context, film model.Film) (model.Film, error) {
	if err := validation.Struct(&film); err != nil {
		return model.Film{}, err
	}
	created, err := s.films.Add(ctx, film)
	if err != nil {
		return model.Film{}, err
	}
	s.log.Info().Int64("film_id", created.ID).Str("name", created.Name).Msg("film added")
	return created, nil
}

// Update validates and overwrites an existing film.
func (s *FilmService) Update(ctx context.Context, film model.Film) (model.Film, error) {
	if err := validation.Struct(&film); err != nil {
		return model.Film{}, err
	}
	updated, err := s.films.Update(ctx, film)
	if err != nil {
		return model.Film{}, err
	}
	s.log.Info().Int64("film_id", updated.ID).Msg("film updated")
	return updated, nil
}

func (s *FilmService) Delete(ctx context.Context, id int64) error {
	if err := s.films.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("film_id", id).Msg("film deleted")
	return nil
}

// AddLike records a like after checking that both the film and the user
// exist. It reports whether the like was new.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) (bool, error) {
	if err := s.checkFilmAndUser(ctx, filmID, userID); err != nil {
		return false, err
	}
	changed, err := s.films.AddLike(ctx, filmID, userID)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info().Int64("film_id", filmID).Int64("user_id", userID).Msg("like added")
		publish(ctx, s.events, s.log, queue.NewLikeEvent(queue.LikeAdded, filmID, userID))
	}
	return changed, nil
}

// RemoveLike drops a like after the same existence checks as AddLike.
func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) (bool, error) {
	if err := s.checkFilmAndUser(ctx, filmID, userID); err != nil {
		return false, err
	}
	changed, err := s.films.RemoveLike(ctx, filmID, userID)
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info().Int64("film_id", filmID).Int64("user_id", userID).Msg("like removed")
		publish(ctx, s.events, s.log, queue.NewLikeEvent(queue.LikeRemoved, filmID, userID))
	}
	return changed, nil
}

// GetMostPopularFilms returns up to count films, most liked first.
func (s *FilmService) GetMostPopularFilms(ctx context.Context, count int) ([]model.Film, error) {
	if count <= 0 {
		return nil, validation.New("count", "count must be positive")
	}
	return s.films.GetMostPopular(ctx, count)
}

func (s *FilmService) checkFilmAndUser(ctx context.Context, filmID, userID int64) error {
	if _, err := s.films.GetByID(ctx, filmID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return nil
}

// publish sends ev if events is configured. Failures are logged only.
func publish(ctx context.Context, events EventPublisher, log zerolog.Logger, ev queue.ActivityEvent) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", string(ev.Type)).Str("event_id", ev.ID).Msg("activity event dropped")
	}
}
