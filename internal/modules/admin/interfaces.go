package admin

import (
	"context"

	"concerthall/internal/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListPendingOrganizations(ctx context.Context) ([]domain.User, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
}
