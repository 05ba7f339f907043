package concert

import "time"

type CreateConcertRequest struct {
	Title       string    `json:"title" binding:"required,notblank,max=255"`
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description" binding:"max=5000"`
	PriceType   string    `json:"price_type" binding:"required,oneof=free fixed hat"`
	PriceAmount *int64    `json:"price_amount" binding:"omitempty,gte=0"`
	Location    string    `json:"location" binding:"required,max=255"`
	Composers   []int64   `json:"composers" binding:"omitempty,dive,gt=0"`
	Instruments []int64   `json:"instruments" binding:"omitempty,dive,gt=0"`
}

// UpdateConcertRequest is a partial update: nil fields are left unchanged.
type UpdateConcertRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	PriceType   *string    `json:"price_type" binding:"omitempty,oneof=free fixed hat"`
	PriceAmount *int64     `json:"price_amount" binding:"omitempty,gte=0"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	Composers   *[]int64   `json:"composers"`
	Instruments *[]int64   `json:"instruments"`
}

// ListQuery carries the raw query parameters of the list and filter
// endpoints.
type ListQuery struct {
	Status          string   `form:"status_of_concert"`
	Date            string   `form:"date"`
	ComposerNames   []string `form:"composer_names"`
	InstrumentNames []string `form:"instrument_names"`
	Skip            *int     `form:"skip"`
	Limit           *int     `form:"limit"`
}

type DeleteResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
