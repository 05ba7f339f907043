package repository

import (
	"context"
	"strings"
	"time"

	"concerthall/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	FullName     string    `gorm:"column:full_name;size:255"`
	PhoneNumber  *string   `gorm:"column:phone_number;size:32"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;size:20;index;not null"`
	Verified     bool      `gorm:"column:verified;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.PhoneNumber != nil {
		phone = *m.PhoneNumber
	}

	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		FullName:     m.FullName,
		PhoneNumber:  phone,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		Verified:     m.Verified,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	var phone *string
	if u.PhoneNumber != "" {
		v := u.PhoneNumber
		phone = &v
	}

	return userModel{
		ID:           u.ID,
		Email:        normalizeEmail(u.Email),
		FullName:     u.FullName,
		PhoneNumber:  phone,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Verified:     u.Verified,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u and fills its generated fields. A taken email yields
// ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return mapError(err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&m).Error
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, mapError(err)
	}
	return toDomainUser(m), nil
}

// ListPendingOrganizations returns organizations awaiting verification, oldest first.
func (r *UserRepository) ListPendingOrganizations(ctx context.Context) ([]domain.User, error) {
	var rows []userModel
	err := r.db.WithContext(ctx).
		Where("role = ? AND verified = ?", string(domain.RoleOrganization), false).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", id).
		Update("verified", verified)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
