package auth

import (
	"context"
	"time"

	"concerthall/internal/domain"
)

// UserRepositoryInterface lists only the methods auth uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type passwordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

type tokenIssuer interface {
	IssueDefault(subject string) (string, time.Time, error)
}

type tokenValidator interface {
	Validate(token string) (string, error)
}
