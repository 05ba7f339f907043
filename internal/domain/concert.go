package domain

import "time"

type ConcertStatus string

const (
	ConcertUpcoming  ConcertStatus = "upcoming"
	ConcertCompleted ConcertStatus = "completed"
	ConcertCancelled ConcertStatus = "cancelled"
)

func ParseConcertStatus(s string) (ConcertStatus, error) {
	switch st := ConcertStatus(s); st {
	case ConcertUpcoming, ConcertCompleted, ConcertCancelled:
		return st, nil
	default:
		return "", NewError(ErrInvalidArgument, "status must be one of: upcoming, completed, cancelled")
	}
}

// IsTerminal reports whether no transition leaves the status.
func (s ConcertStatus) IsTerminal() bool {
	return s == ConcertCompleted || s == ConcertCancelled
}

type PriceType string

const (
	PriceFree  PriceType = "free"
	PriceFixed PriceType = "fixed"
	PriceHat   PriceType = "hat"
)

func ParsePriceType(s string) (PriceType, error) {
	switch pt := PriceType(s); pt {
	case PriceFree, PriceFixed, PriceHat:
		return pt, nil
	default:
		return "", NewError(ErrInvalidArgument, "price_type must be one of: free, fixed, hat")
	}
}

type Concert struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Date           time.Time     `json:"date"`
	Description    string        `json:"description,omitempty"`
	PriceType      PriceType     `json:"price_type"`
	PriceAmount    *int64        `json:"price_amount,omitempty"`
	Location       string        `json:"location"`
	Status         ConcertStatus `json:"current_status"`
	OrganizationID int64         `json:"organization_id"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Join relations. The ID slices are authoritative for writes; the
	// Composers/Instruments slices are filled on reads.
	ComposerIDs   []int64      `json:"composers"`
	InstrumentIDs []int64      `json:"instruments"`
	Composers     []Composer   `json:"composer_details,omitempty"`
	Instruments   []Instrument `json:"instrument_details,omitempty"`
}

// ConcertFilter is AND-combined; zero values mean no restriction.
// DateFrom is inclusive and DateTo exclusive; DateAt matches one instant.
type ConcertFilter struct {
	Status          *ConcertStatus
	DateAt          *time.Time
	DateFrom        *time.Time
	DateTo          *time.Time
	ComposerNames   []string
	InstrumentNames []string
	Skip            int
	Limit           int
}
