package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/filmorate/internal/database"
	"github.com/iliyamo/filmorate/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, database.DialectSQLite, zerolog.Nop()))
	return db
}

func newFilm(name string) model.Film {
	return model.Film{
		Name:        name,
		Description: "description of " + name,
		ReleaseDate: model.NewDate(2001, time.September, 14),
		Duration:    120,
		Mpa:         &model.Rating{ID: 1},
	}
}

func newUser(login string) model.User {
	return model.User{
		Email:    login + "@example.com",
		Login:    login,
		Name:     "",
		Birthday: model.NewDate(1985, time.March, 2),
	}
}

func mustAddUser(t *testing.T, r *UserRepo, login string) model.User {
	t.Helper()
	u, err := r.Add(context.Background(), newUser(login))
	require.NoError(t, err)
	return u
}

func mustAddFilm(t *testing.T, r *FilmRepo, name string) model.Film {
	t.Helper()
	f, err := r.Add(context.Background(), newFilm(name))
	require.NoError(t, err)
	return f
}
