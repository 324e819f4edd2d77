package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/repository"
)

// Films is the film view of a Store.
type Films struct {
	s *Store
}

func (f *Films) GetByID(_ context.Context, id int64) (model.Film, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	return f.s.film(id)
}

func (f *Films) GetAll(_ context.Context) ([]model.Film, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	out := make([]model.Film, 0, len(f.s.films))
	for _, id := range sortedKeys(f.s.films) {
		film, _ := f.s.film(id)
		out = append(out, film)
	}
	return out, nil
}

func (f *Films) Add(ctx context.Context, film model.Film) (model.Film, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.films[film.ID]; film.ID != 0 && ok {
		return model.Film{}, &repository.AlreadyExistsError{Entity: repository.EntityFilm, ID: film.ID}
	}
	if err := f.s.checkFilmRefs(&film); err != nil {
		return model.Film{}, err
	}
	film.ID = f.s.filmSeq.Add(1)
	if err := f.s.saveFilm(ctx, film); err != nil {
		return model.Film{}, err
	}
	return f.s.film(film.ID)
}

func (f *Films) Update(ctx context.Context, film model.Film) (model.Film, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.films[film.ID]; !ok {
		return model.Film{}, &repository.NotFoundError{Entity: repository.EntityFilm, ID: film.ID}
	}
	if err := f.s.checkFilmRefs(&film); err != nil {
		return model.Film{}, err
	}
	if err := f.s.saveFilm(ctx, film); err != nil {
		return model.Film{}, err
	}
	return f.s.film(film.ID)
}

func (f *Films) Delete(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.films[id]; !ok {
		return &repository.NotFoundError{Entity: repository.EntityFilm, ID: id}
	}
	delete(f.s.filmLikes, id)
	delete(f.s.filmGenres, id)
	delete(f.s.films, id)
	return nil
}

func (f *Films) AddLike(ctx context.Context, filmID, userID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	likes := junction(f.s.filmLikes)
	if likes.contains(filmID, userID) {
		return false, nil
	}
	return true, likes.Insert(ctx, filmID, []int64{userID})
}

func (f *Films) RemoveLike(ctx context.Context, filmID, userID int64) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	likes := junction(f.s.filmLikes)
	if !likes.contains(filmID, userID) {
		return false, nil
	}
	return true, likes.Delete(ctx, filmID, []int64{userID})
}

// GetMostPopular orders by like count descending, then by id.
func (f *Films) GetMostPopular(ctx context.Context, count int) ([]model.Film, error) {
	all, err := f.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(all, func(a, b model.Film) int {
		if c := cmp.Compare(len(b.Likes), len(a.Likes)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	count = max(count, 0)
	if count < len(all) {
		all = all[:count]
	}
	return all, nil
}

// film assembles the aggregate. Callers hold at least the read lock.
func (s *Store) film(id int64) (model.Film, error) {
	film, ok := s.films[id]
	if !ok {
		return model.Film{}, &repository.NotFoundError{Entity: repository.EntityFilm, ID: id}
	}
	mpa := s.ratings[film.RatingID()]
	film.Mpa = &mpa
	genreIDs := junction(s.filmGenres).sorted(id)
	film.Genres = make([]model.Genre, 0, len(genreIDs))
	for _, gid := range genreIDs {
		film.Genres = append(film.Genres, s.genres[gid])
	}
	film.Likes = junction(s.filmLikes).sorted(id)
	return film, nil
}

func (s *Store) saveFilm(ctx context.Context, film model.Film) error {
	if err := repository.Reconcile[int64](ctx, junction(s.filmGenres), film.ID, film.GenreIDs()); err != nil {
		return err
	}
	if err := repository.Reconcile[int64](ctx, junction(s.filmLikes), film.ID, film.Likes); err != nil {
		return err
	}
	row := film
	row.Mpa = &model.Rating{ID: film.RatingID()}
	row.Genres = nil
	row.Likes = nil
	s.films[film.ID] = row
	return nil
}

func (s *Store) checkFilmRefs(film *model.Film) error {
	if _, ok := s.ratings[film.RatingID()]; !ok {
		return &repository.NotFoundError{Entity: repository.EntityRating, ID: film.RatingID()}
	}
	for _, id := range film.GenreIDs() {
		if _, ok := s.genres[id]; !ok {
			return &repository.NotFoundError{Entity: repository.EntityGenre, ID: id}
		}
	}
	for _, id := range film.Likes {
		if _, ok := s.users[id]; !ok {
			return &repository.NotFoundError{Entity: repository.EntityUser, ID: id}
		}
	}
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
