package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"concerthall/internal/domain"
	"concerthall/internal/repository"

	"github.com/sirupsen/logrus"
)

// Service handles registration and password login.
type Service struct {
	users  UserRepositoryInterface
	hasher passwordHasher
	tokens tokenIssuer
	log    logrus.FieldLogger

	dummyMu     sync.Mutex
	dummyDigest string
}

func NewService(users UserRepositoryInterface, hasher passwordHasher, tokens tokenIssuer, log logrus.FieldLogger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	role, err := domain.ParseUserRole(req.Role)
	if err != nil || !role.SignupAllowed() {
		return nil, ErrRoleNotAllowed
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		PasswordHash: hash,
		Role:         role,
		// organizations wait for admin approval
		Verified: role == domain.RoleListener,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user registered")
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummy())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.IssueDefault(user.Email)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// dummy returns a digest used to keep the unknown-email path as slow as a
// real password check. A failed hash is retried on the next call.
func (s *Service) dummy() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyDigest != "" {
		return s.dummyDigest
	}
	digest, err := s.hasher.Hash("concerthall-timing-equaliser")
	if err != nil {
		s.log.WithError(err).Warn("failed to prepare dummy password digest")
		return ""
	}
	s.dummyDigest = digest
	return digest
}
