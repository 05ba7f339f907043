package concert

import (
	"context"
	"time"

	"concerthall/internal/domain"
)

// ConcertRepository is implemented by repository.ConcertRepository.
type ConcertRepository interface {
	Create(ctx context.Context, c *domain.Concert) error
	GetByID(ctx context.Context, id int64) (*domain.Concert, error)
	Mutate(ctx context.Context, id int64, fn func(c *domain.Concert) error) (*domain.Concert, error)
	Delete(ctx context.Context, id int64, guard func(c *domain.Concert) error) (*domain.Concert, error)
	List(ctx context.Context, f domain.ConcertFilter) ([]domain.Concert, error)
	CompleteElapsed(ctx context.Context, now time.Time) ([]domain.Concert, error)
}

// EventPublisher receives lifecycle events after they are committed.
type EventPublisher interface {
	Publish(e Event)
}
