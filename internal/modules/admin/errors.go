package admin

import "concerthall/internal/domain"

var (
	ErrUserNotFound    = domain.NewError(domain.ErrNotFound, "User not found")
	ErrNotOrganization = domain.NewError(domain.ErrInvalidOperation, "Only organizations can be verified")
)
