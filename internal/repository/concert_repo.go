package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"concerthall/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConcertRepository struct {
	db *gorm.DB
}

func NewConcertRepository(db *gorm.DB) *ConcertRepository {
	return &ConcertRepository{db: db}
}

type concertModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	Title          string     `gorm:"column:title;size:255;not null"`
	Date           time.Time  `gorm:"column:date;index;not null"`
	Description    *string    `gorm:"column:description"`
	PriceType      string     `gorm:"column:price_type;size:10;not null"`
	PriceAmount    *int64     `gorm:"column:price_amount"`
	Location       string     `gorm:"column:location;size:255;not null"`
	Status         string     `gorm:"column:current_status;size:20;index;not null"`
	OrganizationID int64      `gorm:"column:organization_id;index;not null"`
	CancelledAt    *time.Time `gorm:"column:cancelled_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (concertModel) TableName() string { return "concerts" }

type concertComposerModel struct {
	ConcertID  int64 `gorm:"column:concert_id;primaryKey;autoIncrement:false"`
	ComposerID int64 `gorm:"column:composer_id;primaryKey;autoIncrement:false;index"`
}

func (concertComposerModel) TableName() string { return "concert_composers" }

type concertInstrumentModel struct {
	ConcertID    int64 `gorm:"column:concert_id;primaryKey;autoIncrement:false"`
	InstrumentID int64 `gorm:"column:instrument_id;primaryKey;autoIncrement:false;index"`
}

func (concertInstrumentModel) TableName() string { return "concert_instruments" }

func toDomainConcert(m concertModel) *domain.Concert {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}

	c := &domain.Concert{
		ID:             m.ID,
		Title:          m.Title,
		Date:           m.Date.UTC(),
		Description:    desc,
		PriceType:      domain.PriceType(m.PriceType),
		PriceAmount:    m.PriceAmount,
		Location:       m.Location,
		Status:         domain.ConcertStatus(m.Status),
		OrganizationID: m.OrganizationID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		ComposerIDs:    []int64{},
		InstrumentIDs:  []int64{},
	}
	if m.CancelledAt != nil {
		t := m.CancelledAt.UTC()
		c.CancelledAt = &t
	}
	return c
}

func toConcertModel(c *domain.Concert) concertModel {
	var desc *string
	if c.Description != "" {
		v := c.Description
		desc = &v
	}
	var cancelledAt *time.Time
	if c.CancelledAt != nil {
		t := c.CancelledAt.UTC()
		cancelledAt = &t
	}

	return concertModel{
		ID:             c.ID,
		Title:          c.Title,
		Date:           c.Date.UTC(),
		Description:    desc,
		PriceType:      string(c.PriceType),
		PriceAmount:    c.PriceAmount,
		Location:       c.Location,
		Status:         string(c.Status),
		OrganizationID: c.OrganizationID,
		CancelledAt:    cancelledAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// Create inserts the concert and its join rows in one transaction. Unknown
// composer or instrument ids roll the whole insert back.
func (r *ConcertRepository) Create(ctx context.Context, c *domain.Concert) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExist(tx, &composerModel{}, c.ComposerIDs, ErrUnknownComposer); err != nil {
			return err
		}
		if err := ensureExist(tx, &instrumentModel{}, c.InstrumentIDs, ErrUnknownInstrument); err != nil {
			return err
		}

		m := toConcertModel(c)
		if err := tx.Create(&m).Error; err != nil {
			return mapError(err)
		}
		if err := insertLinks(tx, m.ID, c.ComposerIDs, c.InstrumentIDs); err != nil {
			return err
		}

		created, err := loadConcert(tx, m.ID, false)
		if err != nil {
			return err
		}
		*c = *created
		return nil
	})
}

func (r *ConcertRepository) GetByID(ctx context.Context, id int64) (*domain.Concert, error) {
	return loadConcert(r.db.WithContext(ctx), id, false)
}

// Mutate loads the concert inside a transaction, applies fn and persists the
// result. An error from fn rolls back. Changed composer or instrument id
// lists replace the stored associations.
func (r *ConcertRepository) Mutate(ctx context.Context, id int64, fn func(c *domain.Concert) error) (*domain.Concert, error) {
	var out *domain.Concert

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadConcert(tx, id, true)
		if err != nil {
			return err
		}

		next := *current
		next.ComposerIDs = slices.Clone(current.ComposerIDs)
		next.InstrumentIDs = slices.Clone(current.InstrumentIDs)
		if err := fn(&next); err != nil {
			return err
		}
		next.ID = current.ID
		next.OrganizationID = current.OrganizationID
		next.CreatedAt = current.CreatedAt

		m := toConcertModel(&next)
		m.UpdatedAt = time.Now().UTC()
		err = tx.Model(&concertModel{ID: id}).Select("*").Omit("id", "created_at").Updates(&m).Error
		if err != nil {
			return mapError(err)
		}

		if !sameIDs(current.ComposerIDs, next.ComposerIDs) {
			if err := ensureExist(tx, &composerModel{}, next.ComposerIDs, ErrUnknownComposer); err != nil {
				return err
			}
			if err := tx.Where("concert_id = ?", id).Delete(&concertComposerModel{}).Error; err != nil {
				return err
			}
			if err := insertLinks(tx, id, next.ComposerIDs, nil); err != nil {
				return err
			}
		}
		if !sameIDs(current.InstrumentIDs, next.InstrumentIDs) {
			if err := ensureExist(tx, &instrumentModel{}, next.InstrumentIDs, ErrUnknownInstrument); err != nil {
				return err
			}
			if err := tx.Where("concert_id = ?", id).Delete(&concertInstrumentModel{}).Error; err != nil {
				return err
			}
			if err := insertLinks(tx, id, nil, next.InstrumentIDs); err != nil {
				return err
			}
		}

		out, err = loadConcert(tx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the join rows and then the concert. guard runs against the
// locked row first and may veto the delete.
func (r *ConcertRepository) Delete(ctx context.Context, id int64, guard func(c *domain.Concert) error) (*domain.Concert, error) {
	var deleted *domain.Concert

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := loadConcert(tx, id, true)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(current); err != nil {
				return err
			}
		}

		if err := tx.Where("concert_id = ?", id).Delete(&concertComposerModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("concert_id = ?", id).Delete(&concertInstrumentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&concertModel{}, id).Error; err != nil {
			return err
		}
		deleted = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// List applies f with AND semantics, ordered by date then id.
func (r *ConcertRepository) List(ctx context.Context, f domain.ConcertFilter) ([]domain.Concert, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&concertModel{})

	if f.Status != nil {
		q = q.Where("concerts.current_status = ?", string(*f.Status))
	}
	if f.DateAt != nil {
		q = q.Where("concerts.date = ?", f.DateAt.UTC())
	}
	if f.DateFrom != nil {
		q = q.Where("concerts.date >= ?", f.DateFrom.UTC())
	}
	if f.DateTo != nil {
		q = q.Where("concerts.date < ?", f.DateTo.UTC())
	}
	if len(f.ComposerNames) > 0 {
		sub := db.Table("concert_composers").
			Select("concert_composers.concert_id").
			Joins("JOIN composers ON composers.id = concert_composers.composer_id").
			Where("composers.name IN ?", f.ComposerNames)
		q = q.Where("concerts.id IN (?)", sub)
	}
	if len(f.InstrumentNames) > 0 {
		sub := db.Table("concert_instruments").
			Select("concert_instruments.concert_id").
			Joins("JOIN instruments ON instruments.id = concert_instruments.instrument_id").
			Where("instruments.name IN ?", f.InstrumentNames)
		q = q.Where("concerts.id IN (?)", sub)
	}

	q = q.Order("concerts.date ASC, concerts.id ASC").Offset(f.Skip)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rows []concertModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Concert, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainConcert(m))
	}
	if err := attachLinks(db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CompleteElapsed moves every upcoming concert dated at or before now to
// completed and returns the affected concerts.
func (r *ConcertRepository) CompleteElapsed(ctx context.Context, now time.Time) ([]domain.Concert, error) {
	var out []domain.Concert

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []concertModel
		q := tx.Where("current_status = ? AND date <= ?", string(domain.ConcertUpcoming), now.UTC())
		if isPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.Order("date ASC, id ASC").Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(rows))
		for _, m := range rows {
			ids = append(ids, m.ID)
		}
		err := tx.Model(&concertModel{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"current_status": string(domain.ConcertCompleted), "updated_at": now.UTC()}).Error
		if err != nil {
			return err
		}

		out = make([]domain.Concert, 0, len(rows))
		for _, m := range rows {
			c := toDomainConcert(m)
			c.Status = domain.ConcertCompleted
			c.UpdatedAt = now.UTC()
			out = append(out, *c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadConcert(tx *gorm.DB, id int64, lock bool) (*domain.Concert, error) {
	var m concertModel
	q := tx
	if lock && isPostgres(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&m, id).Error; err != nil {
		return nil, mapError(err)
	}

	list := []domain.Concert{*toDomainConcert(m)}
	if err := attachLinks(tx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

type composerLinkRow struct {
	ConcertID int64
	ID        int64
	Name      string
	BirthYear *int
	DeathYear *int
}

type instrumentLinkRow struct {
	ConcertID int64
	ID        int64
	Name      string
}

// attachLinks batch-loads composers and instruments for concerts.
func attachLinks(tx *gorm.DB, concerts []domain.Concert) error {
	if len(concerts) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(concerts))
	index := make(map[int64]int, len(concerts))
	for i := range concerts {
		ids = append(ids, concerts[i].ID)
		index[concerts[i].ID] = i
		concerts[i].ComposerIDs = []int64{}
		concerts[i].InstrumentIDs = []int64{}
		concerts[i].Composers = []domain.Composer{}
		concerts[i].Instruments = []domain.Instrument{}
	}

	var composers []composerLinkRow
	err := tx.Table("concert_composers").
		Select("concert_composers.concert_id, composers.id, composers.name, composers.birth_year, composers.death_year").
		Joins("JOIN composers ON composers.id = concert_composers.composer_id").
		Where("concert_composers.concert_id IN ?", ids).
		Order("composers.id ASC").
		Scan(&composers).Error
	if err != nil {
		return err
	}
	for _, row := range composers {
		c := &concerts[index[row.ConcertID]]
		c.ComposerIDs = append(c.ComposerIDs, row.ID)
		c.Composers = append(c.Composers, domain.Composer{ID: row.ID, Name: row.Name, BirthYear: row.BirthYear, DeathYear: row.DeathYear})
	}

	var instruments []instrumentLinkRow
	err = tx.Table("concert_instruments").
		Select("concert_instruments.concert_id, instruments.id, instruments.name").
		Joins("JOIN instruments ON instruments.id = concert_instruments.instrument_id").
		Where("concert_instruments.concert_id IN ?", ids).
		Order("instruments.id ASC").
		Scan(&instruments).Error
	if err != nil {
		return err
	}
	for _, row := range instruments {
		c := &concerts[index[row.ConcertID]]
		c.InstrumentIDs = append(c.InstrumentIDs, row.ID)
		c.Instruments = append(c.Instruments, domain.Instrument{ID: row.ID, Name: row.Name})
	}
	return nil
}

func insertLinks(tx *gorm.DB, concertID int64, composerIDs, instrumentIDs []int64) error {
	if ids := dedupe(composerIDs); len(ids) > 0 {
		rows := make([]concertComposerModel, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, concertComposerModel{ConcertID: concertID, ComposerID: id})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return mapError(err)
		}
	}
	if ids := dedupe(instrumentIDs); len(ids) > 0 {
		rows := make([]concertInstrumentModel, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, concertInstrumentModel{ConcertID: concertID, InstrumentID: id})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return mapError(err)
		}
	}
	return nil
}

// ensureExist fails with kind when any of ids has no row in model's table.
func ensureExist(tx *gorm.DB, model any, ids []int64, kind error) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}

	var found []int64
	if err := tx.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}

	var missing []int64
	for _, id := range ids {
		if !slices.Contains(found, id) {
			missing = append(missing, id)
		}
	}
	return fmt.Errorf("%w: %v", kind, missing)
}

func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func sameIDs(a, b []int64) bool {
	return slices.Equal(dedupe(a), dedupe(b))
}

func isPostgres(tx *gorm.DB) bool {
	return tx.Dialector.Name() == "postgres"
}
