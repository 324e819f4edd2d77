package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

// FilmRepo persists films together with their genre and like associations.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo on an open connection pool.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

const filmSelect = `SELECT f.id, f.name, f.description, f.release_date, f.duration, r.id, r.name
	FROM films f JOIN ratings r ON r.id = f.rating_id`

// GetByID returns the film with its rating, genres and likes resolved.
func (r *FilmRepo) GetByID(ctx context.Context, id int64) (model.Film, error) {
	films, err := r.load(ctx, r.db, filmSelect+" WHERE f.id = ?", id)
	if err != nil {
		return model.Film{}, err
	}
	if len(films) == 0 {
		return model.Film{}, notFound(EntityFilm, id)
	}
	return films[0], nil
}

// GetAll returns every film ordered by id.
func (r *FilmRepo) GetAll(ctx context.Context) ([]model.Film, error) {
	return r.load(ctx, r.db, filmSelect+" ORDER BY f.id")
}

// Add stores a new film and returns it as read back. A non-zero ID that
// already exists is rejected; otherwise the database assigns the id.
func (r *FilmRepo) Add(ctx context.Context, film model.Film) (model.Film, error) {
	if film.ID != 0 {
		found, err := exists(ctx, r.db, "SELECT 1 FROM films WHERE id = ?", film.ID)
		if err != nil {
			return model.Film{}, fmt.Errorf("check film: %w", err)
		}
		if found {
			return model.Film{}, alreadyExists(EntityFilm, film.ID)
		}
	}

	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkFilmRefs(ctx, tx, &film); err != nil {
			return err
		}
		const q = "INSERT INTO films (name, description, release_date, duration, rating_id) VALUES (?, ?, ?, ?, ?)"
		res, err := tx.ExecContext(ctx, q, film.Name, film.Description, film.ReleaseDate, film.Duration, film.RatingID())
		if err != nil {
			return fmt.Errorf("insert film: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return syncFilmAssociations(ctx, tx, id, &film)
	})
	if err != nil {
		return model.Film{}, err
	}
	return r.GetByID(ctx, id)
}

// Update overwrites the scalar columns of an existing film and brings its
// genres and likes in line with the given aggregate.
func (r *FilmRepo) Update(ctx context.Context, film model.Film) (model.Film, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM films WHERE id = ?", film.ID)
		if err != nil {
			return fmt.Errorf("check film: %w", err)
		}
		if !found {
			return notFound(EntityFilm, film.ID)
		}
		if err := checkFilmRefs(ctx, tx, &film); err != nil {
			return err
		}
		const q = `UPDATE films
		           SET name = ?, description = ?, release_date = ?, duration = ?, rating_id = ?
		           WHERE id = ?`
		if _, err := tx.ExecContext(ctx, q, film.Name, film.Description, film.ReleaseDate, film.Duration, film.RatingID(), film.ID); err != nil {
			return fmt.Errorf("update film: %w", err)
		}
		return syncFilmAssociations(ctx, tx, film.ID, &film)
	})
	if err != nil {
		return model.Film{}, err
	}
	return r.GetByID(ctx, film.ID)
}

// Delete removes the film with its likes and genre rows.
func (r *FilmRepo) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		found, err := exists(ctx, tx, "SELECT 1 FROM films WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("check film: %w", err)
		}
		if !found {
			return notFound(EntityFilm, id)
		}
		if err := filmLikes.On(tx).DeleteOwner(ctx, id); err != nil {
			return err
		}
		if err := filmGenres.On(tx).DeleteOwner(ctx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM films WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete film: %w", err)
		}
		return nil
	})
}

// AddLike records that userID likes filmID. It reports whether a row was
// written; an existing like is left untouched.
func (r *FilmRepo) AddLike(ctx context.Context, filmID, userID int64) (bool, error) {
	var changed bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		likes := filmLikes.On(tx)
		has, err := likes.Contains(ctx, filmID, userID)
		if err != nil || has {
			return err
		}
		changed = true
		return likes.Insert(ctx, filmID, []int64{userID})
	})
	return changed, err
}

// RemoveLike drops the like if present and reports whether it did.
func (r *FilmRepo) RemoveLike(ctx context.Context, filmID, userID int64) (bool, error) {
	var changed bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		likes := filmLikes.On(tx)
		has, err := likes.Contains(ctx, filmID, userID)
		if err != nil || !has {
			return err
		}
		changed = true
		return likes.Delete(ctx, filmID, []int64{userID})
	})
	return changed, err
}

// GetMostPopular returns up to count films ordered by like count, most
// liked first. Ties are broken by ascending film id and films without likes
// are included.
func (r *FilmRepo) GetMostPopular(ctx context.Context, count int) ([]model.Film, error) {
	const q = `SELECT f.id, f.name, f.description, f.release_date, f.duration, r.id, r.name
		FROM films f
		JOIN ratings r ON r.id = f.rating_id
		LEFT JOIN film_likes fl ON fl.film_id = f.id
		GROUP BY f.id, f.name, f.description, f.release_date, f.duration, r.id, r.name
		ORDER BY COUNT(fl.user_id) DESC, f.id
		LIMIT ?`
	return r.load(ctx, r.db, q, count)
}

// load runs a film query and attaches genres and likes. Rows are drained and
// closed before the association queries run so a single-connection pool
// does not block.
func (r *FilmRepo) load(ctx context.Context, q querier, query string, args ...any) ([]model.Film, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query films: %w", err)
	}
	films := make([]model.Film, 0)
	for rows.Next() {
		var f model.Film
		var mpa model.Rating
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.ReleaseDate, &f.Duration, &mpa.ID, &mpa.Name); err != nil {
			rows.Close()
			return nil, err
		}
		f.Mpa = &mpa
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(films) == 0 {
		return films, nil
	}
	ids := make([]int64, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	genres, err := genresByFilm(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	likes, err := filmLikes.On(q).CurrentMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range films {
		films[i].Genres = genres[films[i].ID]
		films[i].Likes = likes[films[i].ID]
	}
	return films, nil
}

// checkFilmRefs verifies that the rating, genres and liking users exist.
func checkFilmRefs(ctx context.Context, q querier, film *model.Film) error {
	ratingID := film.RatingID()
	found, err := exists(ctx, q, "SELECT 1 FROM ratings WHERE id = ?", ratingID)
	if err != nil {
		return fmt.Errorf("check rating: %w", err)
	}
	if !found {
		return notFound(EntityRating, ratingID)
	}
	if id, missing, err := missingID(ctx, q, "genres", film.GenreIDs()); err != nil {
		return err
	} else if missing {
		return notFound(EntityGenre, id)
	}
	if id, missing, err := missingID(ctx, q, "users", film.Likes); err != nil {
		return err
	} else if missing {
		return notFound(EntityUser, id)
	}
	return nil
}

func syncFilmAssociations(ctx context.Context, tx *sql.Tx, filmID int64, film *model.Film) error {
	if err := Reconcile[int64](ctx, filmGenres.On(tx), filmID, film.GenreIDs()); err != nil {
		return fmt.Errorf("sync genres: %w", err)
	}
	if err := Reconcile[int64](ctx, filmLikes.On(tx), filmID, film.Likes); err != nil {
		return fmt.Errorf("sync likes: %w", err)
	}
	return nil
}
