package auth

import "concerthall/internal/domain"

var (
	ErrInvalidCredentials = domain.NewCodedError(domain.ErrUnauthenticated, "INVALID_CREDENTIALS", "Incorrect email or password")
	ErrEmailAlreadyExists = domain.NewCodedError(domain.ErrInvalidArgument, "EMAIL_EXISTS", "Email already registered")
	ErrRoleNotAllowed     = domain.NewError(domain.ErrInvalidArgument, "role must be one of: listener, organization")
	ErrUnauthenticated    = domain.NewError(domain.ErrUnauthenticated, "Could not validate credentials")
)
