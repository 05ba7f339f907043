package domain

type Composer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year,omitempty"`
	DeathYear *int   `json:"death_year,omitempty"`
}

type Instrument struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
