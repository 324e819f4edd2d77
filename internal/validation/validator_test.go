package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/filmorate/internal/model"
)

func validFilm() model.Film {
	return model.Film{
		Name:        "Solaris",
		Description: "A psychologist is sent to a station orbiting a distant planet.",
		ReleaseDate: model.NewDate(1972, time.March, 20),
		Duration:    167,
		Mpa:         &model.Rating{ID: 2},
	}
}

func validUser() model.User {
	return model.User{
		Email:    "kris@example.com",
		Login:    "kris",
		Birthday: model.NewDate(1990, time.May, 1),
	}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var ve *Error
	require.ErrorAs(t, err, &ve)
	names := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestStruct_ValidFilm(t *testing.T) {
	f := validFilm()
	assert.NoError(t, Struct(&f))
}

func TestStruct_FilmRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.Film)
		field  string
	}{
		{"blank name", func(f *model.Film) { f.Name = "   " }, "name"},
		{"long description", func(f *model.Film) {
			b := make([]byte, 201)
			for i := range b {
				b[i] = 'x'
			}
			f.Description = string(b)
		}, "description"},
		{"too early", func(f *model.Film) { f.ReleaseDate = model.NewDate(1895, time.December, 27) }, "releaseDate"},
		{"missing release date", func(f *model.Film) { f.ReleaseDate = model.Date{} }, "releaseDate"},
		{"zero duration", func(f *model.Film) { f.Duration = 0 }, "duration"},
		{"negative duration", func(f *model.Film) { f.Duration = -5 }, "duration"},
		{"missing mpa", func(f *model.Film) { f.Mpa = nil }, "mpa"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validFilm()
			tc.mutate(&f)
			err := Struct(&f)
			require.Error(t, err)
			assert.True(t, Is(err))
			assert.Equal(t, []string{tc.field}, fieldNames(t, err))
		})
	}
}

func TestStruct_ReleaseDateBoundary(t *testing.T) {
	f := validFilm()
	f.ReleaseDate = model.NewDate(1895, time.December, 28)
	assert.NoError(t, Struct(&f))
}

func TestStruct_UserRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.User)
		field  string
	}{
		{"blank email", func(u *model.User) { u.Email = "" }, "email"},
		{"bad email", func(u *model.User) { u.Email = "not-an-email" }, "email"},
		{"blank login", func(u *model.User) { u.Login = "" }, "login"},
		{"login with space", func(u *model.User) { u.Login = "kris kelvin" }, "login"},
		{"future birthday", func(u *model.User) {
			u.Birthday = model.Date{Time: LatestToday().AddDate(0, 0, 1)}
		}, "birthday"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := validUser()
			tc.mutate(&u)
			assert.Equal(t, []string{tc.field}, fieldNames(t, Struct(&u)))
		})
	}
}

func TestStruct_BirthdayToday(t *testing.T) {
	u := validUser()
	u.Birthday = model.Today()
	assert.NoError(t, Struct(&u))
}

func TestStruct_BirthdayTodayEastOfUTC(t *testing.T) {
	u := validUser()
	u.Birthday = LatestToday()
	assert.NoError(t, Struct(&u))

	utcToday := model.Today()
	assert.False(t, LatestToday().Before(utcToday.Time))
	assert.False(t, LatestToday().After(utcToday.AddDate(0, 0, 1)))
}

func TestStruct_CollectsEveryField(t *testing.T) {
	u := model.User{Login: "a b"}
	names := fieldNames(t, Struct(&u))
	assert.ElementsMatch(t, []string{"email", "login", "birthday"}, names)
}

func TestError_Message(t *testing.T) {
	err := New("count", "count must be positive")
	assert.Equal(t, "count must be positive", err.Error())
	assert.True(t, Is(err))
	assert.Equal(t, "validation failed", (&Error{}).Error())
}
