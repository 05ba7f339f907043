package concert

import "concerthall/internal/domain"

var (
	ErrConcertNotFound    = domain.NewError(domain.ErrNotFound, "Concert not found")
	ErrComposerNotFound   = domain.NewError(domain.ErrNotFound, "Composer not found")
	ErrInstrumentNotFound = domain.NewError(domain.ErrNotFound, "Instrument not found")

	ErrNotAuthenticated  = domain.NewError(domain.ErrUnauthenticated, "Not authenticated")
	ErrOrganizationsOnly = domain.NewError(domain.ErrForbidden, "Only organizations can create concerts")
	ErrNotOrganizer      = domain.NewError(domain.ErrForbidden, "You are not the organizer of this concert")

	ErrDateInPast          = domain.NewError(domain.ErrInvalidArgument, "Concert date cannot be in the past")
	ErrEarlierReschedule   = domain.NewError(domain.ErrInvalidArgument, "Concert cannot be moved to an earlier date")
	ErrEmptyLocation       = domain.NewError(domain.ErrInvalidArgument, "Location must not be empty")
	ErrEmptyTitle          = domain.NewError(domain.ErrInvalidArgument, "Title must not be empty")
	ErrPriceAmountRequired = domain.NewError(domain.ErrInvalidArgument, "price_amount is required for fixed price concerts")
	ErrNegativePrice       = domain.NewError(domain.ErrInvalidArgument, "price_amount must not be negative")
	ErrNegativePaging      = domain.NewError(domain.ErrInvalidArgument, "skip and limit must not be negative")
	ErrInvalidDateFilter   = domain.NewError(domain.ErrInvalidArgument, "date must be YYYY-MM-DD or an RFC3339 timestamp")

	ErrAlreadyCancelled  = domain.NewError(domain.ErrInvalidOperation, "Concert is already cancelled")
	ErrAlreadyCompleted  = domain.NewError(domain.ErrInvalidOperation, "Completed concerts cannot be cancelled")
	ErrCancelElapsed     = domain.NewError(domain.ErrInvalidOperation, "Concerts that already took place cannot be cancelled")
	ErrDeleteNotTerminal = domain.NewError(domain.ErrInvalidOperation, "Only cancelled or completed concerts can be deleted")
)
