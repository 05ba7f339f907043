package concert

import (
	"context"
	"errors"
	"strings"
	"time"

	"concerthall/internal/domain"
	"concerthall/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	defaultLimit = 100
	dateOnly     = "2006-01-02"
)

type Options struct {
	// ForbidEarlierReschedule rejects updates that move a concert earlier.
	ForbidEarlierReschedule bool
	// DeleteRequiresTerminal only allows deleting cancelled or completed concerts.
	DeleteRequiresTerminal bool
	PageLimitMax           int
}

// Service is the concert lifecycle manager. Every mutation runs inside one
// repository transaction; events are published after commit.
type Service struct {
	concerts ConcertRepository
	policy   Policy
	opts     Options
	events   EventPublisher
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(concerts ConcertRepository, policy Policy, opts Options, events EventPublisher, log logrus.FieldLogger) *Service {
	if events == nil {
		events = noopPublisher{}
	}
	if opts.PageLimitMax <= 0 {
		opts.PageLimitMax = 1000
	}
	return &Service{
		concerts: concerts,
		policy:   policy,
		opts:     opts,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, principal *domain.User, req CreateConcertRequest) (*domain.Concert, error) {
	if principal == nil {
		return nil, ErrNotAuthenticated
	}

	now := s.now().UTC()
	date := req.Date.UTC()
	if !date.After(now) {
		return nil, ErrDateInPast
	}
	if !s.policy.CanCreateConcert(principal) {
		return nil, ErrOrganizationsOnly
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	priceType, err := domain.ParsePriceType(req.PriceType)
	if err != nil {
		return nil, err
	}
	amount, err := normalizePrice(priceType, req.PriceAmount)
	if err != nil {
		return nil, err
	}

	c := &domain.Concert{
		Title:          title,
		Date:           date,
		Description:    strings.TrimSpace(req.Description),
		PriceType:      priceType,
		PriceAmount:    amount,
		Location:       location,
		Status:         domain.ConcertUpcoming,
		OrganizationID: principal.ID,
		ComposerIDs:    req.Composers,
		InstrumentIDs:  req.Instruments,
	}

	if err := s.concerts.Create(ctx, c); err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(EventCreated, c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Concert, error) {
	c, err := s.concerts.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return c, nil
}

// Update applies the fields present in req. Ownership is checked against the
// stored row inside the transaction.
func (s *Service) Update(ctx context.Context, principal *domain.User, id int64, req UpdateConcertRequest) (*domain.Concert, error) {
	if principal == nil {
		return nil, ErrNotAuthenticated
	}

	now := s.now().UTC()
	updated, err := s.concerts.Mutate(ctx, id, func(c *domain.Concert) error {
		if !s.policy.CanMutateConcert(principal, c) {
			return ErrNotOrganizer
		}
		return s.applyPatch(c, req, now)
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(EventUpdated, updated)
	return updated, nil
}

func (s *Service) applyPatch(c *domain.Concert, req UpdateConcertRequest, now time.Time) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return ErrEmptyTitle
		}
		c.Title = title
	}

	if req.Date != nil {
		date := req.Date.UTC()
		if date.Before(now) {
			return ErrDateInPast
		}
		if s.opts.ForbidEarlierReschedule && date.Before(c.Date) {
			return ErrEarlierReschedule
		}
		c.Date = date
	}

	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}

	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			return ErrEmptyLocation
		}
		c.Location = location
	}

	if req.PriceType != nil || req.PriceAmount != nil {
		priceType := c.PriceType
		if req.PriceType != nil {
			pt, err := domain.ParsePriceType(*req.PriceType)
			if err != nil {
				return err
			}
			priceType = pt
		}
		amount := c.PriceAmount
		if req.PriceAmount != nil {
			amount = req.PriceAmount
		}
		normalized, err := normalizePrice(priceType, amount)
		if err != nil {
			return err
		}
		c.PriceType = priceType
		c.PriceAmount = normalized
	}

	if req.Composers != nil {
		c.ComposerIDs = *req.Composers
	}
	if req.Instruments != nil {
		c.InstrumentIDs = *req.Instruments
	}
	return nil
}

// Cancel moves an upcoming concert that has not yet taken place to cancelled.
func (s *Service) Cancel(ctx context.Context, principal *domain.User, id int64) (*domain.Concert, error) {
	if principal == nil {
		return nil, ErrNotAuthenticated
	}

	now := s.now().UTC()
	cancelled, err := s.concerts.Mutate(ctx, id, func(c *domain.Concert) error {
		if !s.policy.CanCancelConcert(principal, c) {
			return ErrNotOrganizer
		}
		switch c.Status {
		case domain.ConcertCancelled:
			return ErrAlreadyCancelled
		case domain.ConcertCompleted:
			return ErrAlreadyCompleted
		}
		if c.Date.Before(now) {
			return ErrCancelElapsed
		}

		c.Status = domain.ConcertCancelled
		c.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(EventCancelled, cancelled)
	return cancelled, nil
}

func (s *Service) Delete(ctx context.Context, principal *domain.User, id int64) error {
	if principal == nil {
		return ErrNotAuthenticated
	}

	deleted, err := s.concerts.Delete(ctx, id, func(c *domain.Concert) error {
		if !s.policy.CanMutateConcert(principal, c) {
			return ErrNotOrganizer
		}
		if s.opts.DeleteRequiresTerminal && !c.Status.IsTerminal() {
			return ErrDeleteNotTerminal
		}
		return nil
	})
	if err != nil {
		return mapRepoError(err)
	}

	s.publish(EventDeleted, deleted)
	return nil
}

// List returns concerts matching f. Negative paging is rejected and the
// limit is clamped to the configured maximum.
func (s *Service) List(ctx context.Context, f domain.ConcertFilter) ([]domain.Concert, error) {
	if f.Skip < 0 || f.Limit < 0 {
		return nil, ErrNegativePaging
	}
	if f.Limit == 0 {
		return []domain.Concert{}, nil
	}
	if f.Limit > s.opts.PageLimitMax {
		f.Limit = s.opts.PageLimitMax
	}

	concerts, err := s.concerts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return concerts, nil
}

// Filter is List restricted to upcoming concerts.
func (s *Service) Filter(ctx context.Context, f domain.ConcertFilter) ([]domain.Concert, error) {
	upcoming := domain.ConcertUpcoming
	f.Status = &upcoming
	return s.List(ctx, f)
}

// CompleteElapsed marks upcoming concerts whose date has passed as completed.
func (s *Service) CompleteElapsed(ctx context.Context) (int, error) {
	done, err := s.concerts.CompleteElapsed(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	for i := range done {
		s.publish(EventCompleted, &done[i])
	}
	return len(done), nil
}

// ParseListQuery converts raw query parameters into a filter. A date of the
// form YYYY-MM-DD selects the whole UTC day; an RFC3339 value selects that
// exact instant.
func ParseListQuery(q ListQuery) (domain.ConcertFilter, error) {
	f := domain.ConcertFilter{Limit: defaultLimit}

	if q.Status != "" {
		st, err := domain.ParseConcertStatus(q.Status)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}

	if d := strings.TrimSpace(q.Date); d != "" {
		if day, err := time.Parse(dateOnly, d); err == nil {
			from := day.UTC()
			to := from.AddDate(0, 0, 1)
			f.DateFrom, f.DateTo = &from, &to
		} else if at, err := time.Parse(time.RFC3339Nano, d); err == nil {
			at = at.UTC()
			f.DateAt = &at
		} else {
			return f, ErrInvalidDateFilter
		}
	}

	f.ComposerNames = splitNames(q.ComposerNames)
	f.InstrumentNames = splitNames(q.InstrumentNames)

	if q.Skip != nil {
		f.Skip = *q.Skip
	}
	if q.Limit != nil {
		f.Limit = *q.Limit
	}
	return f, nil
}

// splitNames accepts repeated parameters and comma separated values.
func splitNames(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if name := strings.TrimSpace(part); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

func normalizePrice(pt domain.PriceType, amount *int64) (*int64, error) {
	if pt != domain.PriceFixed {
		return nil, nil
	}
	if amount == nil {
		return nil, ErrPriceAmountRequired
	}
	if *amount < 0 {
		return nil, ErrNegativePrice
	}
	v := *amount
	return &v, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrConcertNotFound
	case errors.Is(err, repository.ErrUnknownComposer):
		return ErrComposerNotFound
	case errors.Is(err, repository.ErrUnknownInstrument):
		return ErrInstrumentNotFound
	}
	return err
}

func (s *Service) publish(t EventType, c *domain.Concert) {
	e := newEvent(t, c, s.now())
	s.log.WithFields(logrus.Fields{
		"event":           e.Type,
		"concert_id":      e.ConcertID,
		"status":          e.Status,
		"organization_id": e.OrganizationID,
	}).Info("concert lifecycle event")
	s.events.Publish(e)
}
