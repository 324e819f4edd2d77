package model

// Genre is an immutable reference row seeded by migrations.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Rating is an MPA age rating. Reference row, seeded by migrations.
type Rating struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
