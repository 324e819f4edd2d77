package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/filmorate/internal/model"
)

// RatingRepo reads the seeded MPA ratings.
type RatingRepo struct {
	db *sql.DB
}

func NewRatingRepo(db *sql.DB) *RatingRepo {
	return &RatingRepo{db: db}
}

func (r *RatingRepo) GetAll(ctx context.Context) ([]model.Rating, error) {
	const q = "SELECT id, name FROM ratings ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	out := make([]model.Rating, 0)
	for rows.Next() {
		var m model.Rating
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *RatingRepo) GetByID(ctx context.Context, id int64) (model.Rating, error) {
	const q = "SELECT id, name FROM ratings WHERE id = ?"
	var m model.Rating
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Rating{}, notFound(EntityRating, id)
		}
		return model.Rating{}, fmt.Errorf("get rating: %w", err)
	}
	return m, nil
}
