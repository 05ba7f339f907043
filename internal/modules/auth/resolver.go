package auth

import (
	"context"
	"errors"

	"concerthall/internal/domain"
	"concerthall/internal/repository"
)

// Resolver maps a bearer token to the stored user it names.
type Resolver struct {
	users  UserRepositoryInterface
	tokens tokenValidator
}

func NewResolver(users UserRepositoryInterface, tokens tokenValidator) *Resolver {
	return &Resolver{users: users, tokens: tokens}
}

// Resolve fails with ErrUnauthenticated for every token problem and for
// subjects that no longer exist. Other store errors pass through.
func (r *Resolver) Resolve(ctx context.Context, token string) (*domain.User, error) {
	subject, err := r.tokens.Validate(token)
	if err != nil || subject == "" {
		return nil, ErrUnauthenticated
	}

	user, err := r.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}
