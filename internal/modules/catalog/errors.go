package catalog

import "concerthall/internal/domain"

var (
	ErrComposerNotFound   = domain.NewError(domain.ErrNotFound, "Composer not found")
	ErrInstrumentNotFound = domain.NewError(domain.ErrNotFound, "Instrument not found")
	ErrComposerExists     = domain.NewCodedError(domain.ErrInvalidArgument, "NAME_EXISTS", "Composer with this name already exists")
	ErrInstrumentExists   = domain.NewCodedError(domain.ErrInvalidArgument, "NAME_EXISTS", "Instrument with this name already exists")
	ErrDeathBeforeBirth   = domain.NewError(domain.ErrInvalidArgument, "death_year must not be before birth_year")
	ErrNegativePaging     = domain.NewError(domain.ErrInvalidArgument, "skip and limit must not be negative")
)
