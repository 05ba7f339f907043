package catalog

import (
	"context"

	"concerthall/internal/domain"
)

type ComposerRepository interface {
	Create(ctx context.Context, c *domain.Composer) error
	GetByID(ctx context.Context, id int64) (*domain.Composer, error)
	List(ctx context.Context, skip, limit int) ([]domain.Composer, error)
}

type InstrumentRepository interface {
	Create(ctx context.Context, i *domain.Instrument) error
	GetByID(ctx context.Context, id int64) (*domain.Instrument, error)
	List(ctx context.Context, skip, limit int) ([]domain.Instrument, error)
}
