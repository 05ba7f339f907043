package admin

import (
	"context"
	"errors"

	"concerthall/internal/domain"
	"concerthall/internal/repository"

	"github.com/sirupsen/logrus"
)

type Service struct {
	userRepo UserRepository
	log      logrus.FieldLogger
}

func NewService(userRepo UserRepository, log logrus.FieldLogger) *Service {
	return &Service{userRepo: userRepo, log: log}
}

// GetPendingOrganizations returns organizations that still wait for approval.
func (s *Service) GetPendingOrganizations(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListPendingOrganizations(ctx)
}

// VerifyOrganization marks an organization account as verified. Verifying
// an already verified organization is a no-op.
func (s *Service) VerifyOrganization(ctx context.Context, adminID, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsOrganization() {
		return nil, ErrNotOrganization
	}
	if user.Verified {
		return user, nil
	}

	if err := s.userRepo.SetVerified(ctx, userID, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Verified = true

	s.log.WithFields(logrus.Fields{
		"admin_id": adminID,
		"user_id":  userID,
	}).Info("organization verified")
	return user, nil
}
