package catalog

import (
	"context"
	"errors"
	"strings"

	"concerthall/internal/domain"
	"concerthall/internal/repository"

	"github.com/sirupsen/logrus"
)

const defaultLimit = 100

type Service struct {
	composers    ComposerRepository
	instruments  InstrumentRepository
	pageLimitMax int
	log          logrus.FieldLogger
}

func NewService(composers ComposerRepository, instruments InstrumentRepository, pageLimitMax int, log logrus.FieldLogger) *Service {
	if pageLimitMax <= 0 {
		pageLimitMax = 1000
	}
	return &Service{
		composers:    composers,
		instruments:  instruments,
		pageLimitMax: pageLimitMax,
		log:          log,
	}
}

/* ---------- COMPOSERS ---------- */

func (s *Service) CreateComposer(ctx context.Context, req CreateComposerRequest) (*domain.Composer, error) {
	if req.BirthYear != nil && req.DeathYear != nil && *req.DeathYear < *req.BirthYear {
		return nil, ErrDeathBeforeBirth
	}

	c := &domain.Composer{
		Name:      strings.TrimSpace(req.Name),
		BirthYear: req.BirthYear,
		DeathYear: req.DeathYear,
	}
	if err := s.composers.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrComposerExists
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"composer_id": c.ID, "name": c.Name}).Info("composer created")
	return c, nil
}

func (s *Service) GetComposer(ctx context.Context, id int64) (*domain.Composer, error) {
	c, err := s.composers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrComposerNotFound
	}
	return c, err
}

func (s *Service) ListComposers(ctx context.Context, skip, limit int) ([]domain.Composer, error) {
	limit, err := s.page(skip, limit)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return []domain.Composer{}, nil
	}
	return s.composers.List(ctx, skip, limit)
}

/* ---------- INSTRUMENTS ---------- */

func (s *Service) CreateInstrument(ctx context.Context, req CreateInstrumentRequest) (*domain.Instrument, error) {
	i := &domain.Instrument{Name: strings.TrimSpace(req.Name)}
	if err := s.instruments.Create(ctx, i); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrInstrumentExists
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"instrument_id": i.ID, "name": i.Name}).Info("instrument created")
	return i, nil
}

func (s *Service) GetInstrument(ctx context.Context, id int64) (*domain.Instrument, error) {
	i, err := s.instruments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInstrumentNotFound
	}
	return i, err
}

func (s *Service) ListInstruments(ctx context.Context, skip, limit int) ([]domain.Instrument, error) {
	limit, err := s.page(skip, limit)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return []domain.Instrument{}, nil
	}
	return s.instruments.List(ctx, skip, limit)
}

// page validates paging and clamps limit to the configured maximum.
func (s *Service) page(skip, limit int) (int, error) {
	if skip < 0 || limit < 0 {
		return 0, ErrNegativePaging
	}
	if limit > s.pageLimitMax {
		limit = s.pageLimitMax
	}
	return limit, nil
}
