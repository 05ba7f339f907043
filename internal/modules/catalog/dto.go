package catalog

type CreateComposerRequest struct {
	Name      string `json:"name" binding:"required,notblank,max=255"`
	BirthYear *int   `json:"birth_year" binding:"omitempty,year"`
	DeathYear *int   `json:"death_year" binding:"omitempty,year"`
}

type CreateInstrumentRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255"`
}

type PageQuery struct {
	Skip  *int `form:"skip"`
	Limit *int `form:"limit"`
}
