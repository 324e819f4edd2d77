package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/filmorate/internal/handler"
	"github.com/iliyamo/filmorate/internal/memstore"
	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/service"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	s := memstore.New()
	log := zerolog.Nop()
	e := echo.New()
	RegisterRoutes(e, Handlers{
		Films:    handler.NewFilmHandler(service.NewFilmService(s.Films(), s.Users(), nil, log), log),
		Users:    handler.NewUserHandler(service.NewUserService(s.Users(), nil, log), log),
		Lookups:  handler.NewLookupHandler(service.NewLookupService(s.Genres(), s.Ratings()), log),
		Gatherer: prometheus.NewRegistry(),
	})
	return e
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func createUser(t *testing.T, e *echo.Echo, login string) model.User {
	t.Helper()
	rec := do(e, http.MethodPost, "/users", `{"email":"`+login+`@mail.test","login":"`+login+`","birthday":"1990-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.User](t, rec)
}

func createFilm(t *testing.T, e *echo.Echo, name string) model.Film {
	t.Helper()
	rec := do(e, http.MethodPost, "/films", `{"name":"`+name+`","description":"d","releaseDate":"2000-05-05","duration":90,"mpa":{"id":1},"genres":[{"id":2},{"id":1},{"id":2}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[model.Film](t, rec)
}

func TestFilmLifecycle(t *testing.T) {
	e := newServer(t)

	film := createFilm(t, e, "Heat")
	assert.Positive(t, film.ID)
	require.NotNil(t, film.Mpa)
	assert.Equal(t, "G", film.Mpa.Name)
	assert.Equal(t, []model.Genre{{ID: 1, Name: "Comedy"}, {ID: 2, Name: "Drama"}}, film.Genres)
	assert.Empty(t, film.Likes)

	rec := do(e, http.MethodGet, "/films/"+itoa(film.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"releaseDate":"2000-05-05"`)

	rec = do(e, http.MethodPut, "/films", `{"id":`+itoa(film.ID)+`,"name":"Heat 2","description":"d","releaseDate":"2000-05-05","duration":100,"mpa":{"id":4}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[model.Film](t, rec)
	assert.Equal(t, "Heat 2", updated.Name)
	assert.Equal(t, "R", updated.Mpa.Name)
	assert.Empty(t, updated.Genres)

	rec = do(e, http.MethodDelete, "/films/"+itoa(film.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodGet, "/films/"+itoa(film.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(e, http.MethodGet, "/films", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFilmValidation(t *testing.T) {
	e := newServer(t)
	rec := do(e, http.MethodPost, "/films", `{"name":"Old","description":"d","releaseDate":"1890-01-01","duration":90,"mpa":{"id":1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(e, http.MethodPost, "/films", `{"name":"NoRating","description":"d","releaseDate":"2000-01-01","duration":90}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(e, http.MethodPost, "/films", `{"name":"BadRating","description":"d","releaseDate":"2000-01-01","duration":90,"mpa":{"id":99}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(e, http.MethodPut, "/films", `{"id":999,"name":"Ghost","description":"d","releaseDate":"2000-01-01","duration":90,"mpa":{"id":1}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikesAndPopular(t *testing.T) {
	e := newServer(t)
	a := createFilm(t, e, "A")
	b := createFilm(t, e, "B")
	c := createFilm(t, e, "C")
	u1 := createUser(t, e, "u1")
	u2 := createUser(t, e, "u2")

	like := func(f model.Film, u model.User) *httptest.ResponseRecorder {
		return do(e, http.MethodPut, "/films/"+itoa(f.ID)+"/like/"+itoa(u.ID), "")
	}
	rec := like(b, u1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"like added"}`, rec.Body.String())
	assert.JSONEq(t, `{"message":"like already present"}`, like(b, u1).Body.String())
	like(b, u2)
	like(c, u1)

	rec = do(e, http.MethodGet, "/films/popular", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{b.ID, c.ID, a.ID}, filmIDs(decode[[]model.Film](t, rec)))

	rec = do(e, http.MethodGet, "/films/popular?count=2", "")
	assert.Equal(t, []int64{b.ID, c.ID}, filmIDs(decode[[]model.Film](t, rec)))

	rec = do(e, http.MethodDelete, "/films/"+itoa(b.ID)+"/like/"+itoa(u2.ID), "")
	assert.JSONEq(t, `{"message":"like removed"}`, rec.Body.String())
	rec = do(e, http.MethodDelete, "/films/"+itoa(b.ID)+"/like/"+itoa(u2.ID), "")
	assert.JSONEq(t, `{"message":"like not present"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, like(a, model.User{ID: 999}).Code)
}

func TestUsersAndFriends(t *testing.T) {
	e := newServer(t)
	a := createUser(t, e, "alice")
	assert.Equal(t, "alice", a.Name)
	b := createUser(t, e, "bob")
	c := createUser(t, e, "carol")

	rec := do(e, http.MethodPost, "/users", `{"email":"x@mail.test","login":"has space","birthday":"1990-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	friend := func(x, y model.User) *httptest.ResponseRecorder {
		return do(e, http.MethodPut, "/users/"+itoa(x.ID)+"/friends/"+itoa(y.ID), "")
	}
	assert.JSONEq(t, `{"message":"friend added"}`, friend(a, c).Body.String())
	assert.JSONEq(t, `{"message":"already friends"}`, friend(c, a).Body.String())
	friend(b, c)
	assert.Equal(t, http.StatusBadRequest, friend(a, a).Code)
	assert.Equal(t, http.StatusNotFound, friend(a, model.User{ID: 404}).Code)

	rec = do(e, http.MethodGet, "/users/"+itoa(c.ID)+"/friends", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{a.ID, b.ID}, userIDs(decode[[]model.User](t, rec)))

	rec = do(e, http.MethodGet, "/users/"+itoa(a.ID)+"/friends/common/"+itoa(b.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{c.ID}, userIDs(decode[[]model.User](t, rec)))

	rec = do(e, http.MethodDelete, "/users/"+itoa(a.ID)+"/friends/"+itoa(c.ID), "")
	assert.JSONEq(t, `{"message":"friend removed"}`, rec.Body.String())
	rec = do(e, http.MethodGet, "/users/"+itoa(c.ID), "")
	assert.Equal(t, []int64{b.ID}, decode[model.User](t, rec).FriendIDs)

	rec = do(e, http.MethodPut, "/users", `{"id":`+itoa(b.ID)+`,"email":"bob@mail.test","login":"bobby","name":"","birthday":"1991-02-02"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "bobby", decode[model.User](t, rec).Name)

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/users/"+itoa(b.ID), "").Code)
	rec = do(e, http.MethodGet, "/users/"+itoa(c.ID)+"/friends", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLookupsAndOps(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodGet, "/genres", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Genre](t, rec), 6)
	rec = do(e, http.MethodGet, "/genres/4", "")
	assert.JSONEq(t, `{"id":4,"name":"Thriller"}`, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/genres/77", "").Code)

	rec = do(e, http.MethodGet, "/mpa", "")
	assert.Len(t, decode[[]model.Rating](t, rec), 5)
	rec = do(e, http.MethodGet, "/mpa/3", "")
	assert.JSONEq(t, `{"id":3,"name":"PG-13"}`, rec.Body.String())

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/metrics", "").Code)
}

func TestNonPositiveIDsAreNotFound(t *testing.T) {
	e := newServer(t)
	u := createUser(t, e, "zero")
	f := createFilm(t, e, "Zero")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/users/-1"},
		{http.MethodGet, "/users/0"},
		{http.MethodGet, "/films/-1"},
		{http.MethodDelete, "/films/-1"},
		{http.MethodGet, "/genres/-1"},
		{http.MethodGet, "/mpa/0"},
		{http.MethodPut, "/users/" + itoa(u.ID) + "/friends/-1"},
		{http.MethodGet, "/users/-1/friends"},
		{http.MethodPut, "/films/" + itoa(f.ID) + "/like/-1"},
	} {
		rec := do(e, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s: %s", tc.method, tc.path, rec.Body.String())
	}
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/users/abc", "").Code)
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func filmIDs(films []model.Film) []int64 {
	out := make([]int64, len(films))
	for i, f := range films {
		out[i] = f.ID
	}
	return out
}

func userIDs(users []model.User) []int64 {
	out := make([]int64, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
