package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/filmorate/internal/model"
)

func TestFilmRepo_AddAndGet(t *testing.T) {
	db := newTestDB(t)
	r := NewFilmRepo(db)
	ctx := context.Background()

	in := newFilm("Spirited Away")
	in.Mpa = &model.Rating{ID: 2}
	in.Genres = []model.Genre{{ID: 3}, {ID: 1}, {ID: 3}}

	got, err := r.Add(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, got.ID)
	assert.Equal(t, "Spirited Away", got.Name)
	assert.Equal(t, model.NewDate(2001, time.September, 14), got.ReleaseDate)
	assert.Equal(t, &model.Rating{ID: 2, Name: "PG"}, got.Mpa)
	assert.Equal(t, []model.Genre{{ID: 1, Name: "Comedy"}, {ID: 3, Name: "Cartoon"}}, got.Genres)
	assert.Equal(t, []int64{}, got.Likes)

	again, err := r.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestFilmRepo_AddExistingID(t *testing.T) {
	r := NewFilmRepo(newTestDB(t))
	ctx := context.Background()
	f := mustAddFilm(t, r, "Alien")

	dup := newFilm("Aliens")
	dup.ID = f.ID
	_, err := r.Add(ctx, dup)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.EqualError(t, err, "Film with id 1 already exists")

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "Alien", all[0].Name)
}

func TestFilmRepo_AddUnknownReferences(t *testing.T) {
	r := NewFilmRepo(newTestDB(t))
	ctx := context.Background()

	bad := newFilm("Nope")
	bad.Mpa = &model.Rating{ID: 42}
	_, err := r.Add(ctx, bad)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, EntityRating, nf.Entity)

	bad = newFilm("Nope")
	bad.Genres = []model.Genre{{ID: 1}, {ID: 77}}
	_, err = r.Add(ctx, bad)
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, &NotFoundError{Entity: EntityGenre, ID: 77}, nf)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFilmRepo_Update(t *testing.T) {
	db := newTestDB(t)
	r := NewFilmRepo(db)
	users := NewUserRepo(db)
	ctx := context.Background()
	u1 := mustAddUser(t, users, "u1")
	u2 := mustAddUser(t, users, "u2")

	in := newFilm("Draft")
	in.Genres = []model.Genre{{ID: 1}, {ID: 2}}
	in.Likes = []int64{u1.ID}
	f, err := r.Add(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []int64{u1.ID}, f.Likes)

	f.Name = "Final"
	f.Duration = 95
	f.Mpa = &model.Rating{ID: 4}
	f.Genres = []model.Genre{{ID: 2}, {ID: 6}}
	f.Likes = []int64{u2.ID}
	updated, err := r.Update(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Name)
	assert.Equal(t, 95, updated.Duration)
	assert.Equal(t, "R", updated.Mpa.Name)
	assert.Equal(t, []model.Genre{{ID: 2, Name: "Drama"}, {ID: 6, Name: "Action"}}, updated.Genres)
	assert.Equal(t, []int64{u2.ID}, updated.Likes)
}

func TestFilmRepo_UpdateUnknown(t *testing.T) {
	r := NewFilmRepo(newTestDB(t))
	f := newFilm("Ghost")
	f.ID = 9999
	_, err := r.Update(context.Background(), f)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Film with id 9999 not found")
}

func TestFilmRepo_Delete(t *testing.T) {
	db := newTestDB(t)
	r := NewFilmRepo(db)
	users := NewUserRepo(db)
	ctx := context.Background()
	u := mustAddUser(t, users, "fan")

	in := newFilm("Brazil")
	in.Genres = []model.Genre{{ID: 1}}
	in.Likes = []int64{u.ID}
	f, err := r.Add(ctx, in)
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, f.ID))
	_, err = r.GetByID(ctx, f.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM film_likes").Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM film_genres").Scan(&n))
	assert.Zero(t, n)

	assert.ErrorIs(t, r.Delete(ctx, f.ID), ErrNotFound)
}

func TestFilmRepo_LikesAreIdempotent(t *testing.T) {
	db := newTestDB(t)
	r := NewFilmRepo(db)
	users := NewUserRepo(db)
	ctx := context.Background()
	f := mustAddFilm(t, r, "Stalker")
	u := mustAddUser(t, users, "viewer")

	changed, err := r.AddLike(ctx, f.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = r.AddLike(ctx, f.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := r.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{u.ID}, got.Likes)

	changed, err = r.RemoveLike(ctx, f.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	changed, err = r.RemoveLike(ctx, f.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err = r.GetByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Likes)
}

func TestFilmRepo_GetMostPopular(t *testing.T) {
	db := newTestDB(t)
	r := NewFilmRepo(db)
	users := NewUserRepo(db)
	ctx := context.Background()

	a := mustAddFilm(t, r, "A")
	b := mustAddFilm(t, r, "B")
	c := mustAddFilm(t, r, "C")
	u1 := mustAddUser(t, users, "u1")
	u2 := mustAddUser(t, users, "u2")
	u3 := mustAddUser(t, users, "u3")

	for _, like := range [][2]int64{{b.ID, u1.ID}, {b.ID, u2.ID}, {b.ID, u3.ID}, {c.ID, u1.ID}} {
		_, err := r.AddLike(ctx, like[0], like[1])
		require.NoError(t, err)
	}

	top, err := r.GetMostPopular(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID, a.ID}, filmIDs(top))
	assert.Equal(t, []int64{u1.ID, u2.ID, u3.ID}, top[0].Likes)

	top, err = r.GetMostPopular(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, c.ID}, filmIDs(top))
}

func TestFilmRepo_GetMostPopularTieBreak(t *testing.T) {
	r := NewFilmRepo(newTestDB(t))
	first := mustAddFilm(t, r, "first")
	second := mustAddFilm(t, r, "second")

	top, err := r.GetMostPopular(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID}, filmIDs(top))
}

func filmIDs(films []model.Film) []int64 {
	ids := make([]int64, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	return ids
}
