package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

// GenreRepo reads the seeded genres table.
type GenreRepo struct {
	db *sql.DB
}

func NewGenreRepo(db *sql.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

// GetAll returns every genre ordered by id.
func (r *GenreRepo) GetAll(ctx context.Context) ([]model.Genre, error) {
	const q = "SELECT id, name FROM genres ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	out := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetByID returns one genre or a NotFoundError.
func (r *GenreRepo) GetByID(ctx context.Context, id int64) (model.Genre, error) {
	const q = "SELECT id, name FROM genres WHERE id = ?"
	var g model.Genre
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Genre{}, notFound(EntityGenre, id)
		}
		return model.Genre{}, fmt.Errorf("get genre: %w", err)
	}
	return g, nil
}

// genresByFilm loads the genres of several films in one query, each list
// ordered by genre id.
func genresByFilm(ctx context.Context, q querier, filmIDs []int64) (map[int64][]model.Genre, error) {
	out := make(map[int64][]model.Genre, len(filmIDs))
	if len(filmIDs) == 0 {
		return out, nil
	}
	for _, id := range filmIDs {
		out[id] = []model.Genre{}
	}
	query := "SELECT fg.film_id, g.id, g.name FROM film_genres fg JOIN genres g ON g.id = fg.genre_id " +
		"WHERE fg.film_id IN (" + placeholders(len(filmIDs)) + ") ORDER BY fg.film_id, g.id"
	rows, err := q.QueryContext(ctx, query, int64Args(filmIDs)...)
	if err != nil {
		return nil, fmt.Errorf("load film genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var filmID int64
		var g model.Genre
		if err := rows.Scan(&filmID, &g.ID, &g.Name); err != nil {
			return nil, err
		}
		out[filmID] = append(out[filmID], g)
	}
	return out, rows.Err()
}

// missingID returns the first id in ids that has no row in table.
func missingID(ctx context.Context, q querier, table string, ids []int64) (int64, bool, error) {
	if len(ids) == 0 {
		return 0, false, nil
	}
	query := "SELECT id FROM " + table + " WHERE id IN (" + placeholders(len(ids)) + ")"
	rows, err := q.QueryContext(ctx, query, int64Args(ids)...)
	if err != nil {
		return 0, false, fmt.Errorf("check %s: %w", table, err)
	}
	defer rows.Close()

	found := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, false, err
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return 0, false, err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return id, true, nil
		}
	}
	return 0, false, nil
}
