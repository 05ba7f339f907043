package repository

import (
	"context"
	"strings"

	"concerthall/internal/domain"

	"gorm.io/gorm"
)

type composerModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;size:255;uniqueIndex;not null"`
	BirthYear *int   `gorm:"column:birth_year"`
	DeathYear *int   `gorm:"column:death_year"`
}

func (composerModel) TableName() string { return "composers" }

type instrumentModel struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;size:255;uniqueIndex;not null"`
}

func (instrumentModel) TableName() string { return "instruments" }

func toDomainComposer(m composerModel) domain.Composer {
	return domain.Composer{ID: m.ID, Name: m.Name, BirthYear: m.BirthYear, DeathYear: m.DeathYear}
}

func toDomainInstrument(m instrumentModel) domain.Instrument {
	return domain.Instrument{ID: m.ID, Name: m.Name}
}

type ComposerRepository struct {
	db *gorm.DB
}

func NewComposerRepository(db *gorm.DB) *ComposerRepository {
	return &ComposerRepository{db: db}
}

func (r *ComposerRepository) Create(ctx context.Context, c *domain.Composer) error {
	m := composerModel{Name: strings.TrimSpace(c.Name), BirthYear: c.BirthYear, DeathYear: c.DeathYear}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapError(err)
	}
	*c = toDomainComposer(m)
	return nil
}

func (r *ComposerRepository) GetByID(ctx context.Context, id int64) (*domain.Composer, error) {
	var m composerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapError(err)
	}
	c := toDomainComposer(m)
	return &c, nil
}

func (r *ComposerRepository) List(ctx context.Context, skip, limit int) ([]domain.Composer, error) {
	var rows []composerModel
	err := r.db.WithContext(ctx).Order("id ASC").Offset(skip).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Composer, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainComposer(m))
	}
	return out, nil
}

// FindOrCreate is used by seeding; it keeps existing rows untouched.
func (r *ComposerRepository) FindOrCreate(ctx context.Context, c *domain.Composer) error {
	m := composerModel{Name: strings.TrimSpace(c.Name), BirthYear: c.BirthYear, DeathYear: c.DeathYear}
	if err := r.db.WithContext(ctx).Where(composerModel{Name: m.Name}).FirstOrCreate(&m).Error; err != nil {
		return mapError(err)
	}
	*c = toDomainComposer(m)
	return nil
}

type InstrumentRepository struct {
	db *gorm.DB
}

func NewInstrumentRepository(db *gorm.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

func (r *InstrumentRepository) Create(ctx context.Context, i *domain.Instrument) error {
	m := instrumentModel{Name: strings.TrimSpace(i.Name)}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapError(err)
	}
	*i = toDomainInstrument(m)
	return nil
}

func (r *InstrumentRepository) GetByID(ctx context.Context, id int64) (*domain.Instrument, error) {
	var m instrumentModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapError(err)
	}
	i := toDomainInstrument(m)
	return &i, nil
}

func (r *InstrumentRepository) List(ctx context.Context, skip, limit int) ([]domain.Instrument, error) {
	var rows []instrumentModel
	err := r.db.WithContext(ctx).Order("id ASC").Offset(skip).Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Instrument, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainInstrument(m))
	}
	return out, nil
}

func (r *InstrumentRepository) FindOrCreate(ctx context.Context, i *domain.Instrument) error {
	m := instrumentModel{Name: strings.TrimSpace(i.Name)}
	if err := r.db.WithContext(ctx).Where(instrumentModel{Name: m.Name}).FirstOrCreate(&m).Error; err != nil {
		return mapError(err)
	}
	*i = toDomainInstrument(m)
	return nil
}
