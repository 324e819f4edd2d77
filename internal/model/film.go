// Package model holds the domain types shared by storage, services and
// handlers.
package model

// Film is a catalog entry. Genres are unique by id and Likes holds the ids
// of users who liked the film; both are sorted ascending by id when read
// back from a store.
type Film struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"notblank"`
	Description string  `json:"description" validate:"max=200"`
	ReleaseDate Date    `json:"releaseDate" validate:"required,releasedate"`
	Duration    int     `json:"duration" validate:"gt=0"`
	Mpa         *Rating `json:"mpa" validate:"required"`
	Genres      []Genre `json:"genres"`
	Likes       []int64 `json:"likes"`
}

// GenreIDs returns the distinct genre ids in input order.
func (f *Film) GenreIDs() []int64 {
	seen := make(map[int64]struct{}, len(f.Genres))
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	return ids
}

// RatingID is the id of the referenced rating, or zero when unset.
func (f *Film) RatingID() int64 {
	if f.Mpa == nil {
		return 0
	}
	return f.Mpa.ID
}
