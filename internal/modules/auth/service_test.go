package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"concerthall/internal/domain"
	"concerthall/internal/pkg/password"
	"concerthall/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// Mock token issuer
type mockTokens struct {
	mock.Mock
}

func (m *mockTokens) IssueDefault(subject string) (string, time.Time, error) {
	args := m.Called(subject)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// countingHasher records how many verifications ran.
type countingHasher struct {
	*password.Hasher
	verifies int
}

func (h *countingHasher) Verify(plain, digest string) bool {
	h.verifies++
	return h.Hasher.Verify(plain, digest)
}

func newTestService(users *mockUserRepo, tokens *mockTokens) (*Service, *countingHasher) {
	log, _ := test.NewNullLogger()
	hasher := &countingHasher{Hasher: password.NewHasher(bcrypt.MinCost)}
	return NewService(users, hasher, tokens, log), hasher
}

func TestService_Signup_Listener(t *testing.T) {
	users := new(mockUserRepo)
	svc, hasher := newTestService(users, new(mockTokens))

	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "fan@example.com" && u.Role == domain.RoleListener && u.Verified
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = 7
	}).Return(nil)

	user, err := svc.Signup(context.Background(), SignupRequest{
		Email:    " Fan@Example.com ",
		FullName: "Music Fan",
		Password: "secret1",
		Role:     "listener",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, hasher.Verify("secret1", user.PasswordHash))
	users.AssertExpectations(t)
}

func TestService_Signup_OrganizationIsUnverified(t *testing.T) {
	users := new(mockUserRepo)
	svc, _ := newTestService(users, new(mockTokens))

	users.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, err := svc.Signup(context.Background(), SignupRequest{
		Email: "org@example.com", FullName: "Hall", Password: "secret1", Role: "organization",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOrganization, user.Role)
	assert.False(t, user.Verified)
}

func TestService_Signup_RejectsRoles(t *testing.T) {
	users := new(mockUserRepo)
	svc, _ := newTestService(users, new(mockTokens))

	for _, role := range []string{"admin", "superuser", ""} {
		_, err := svc.Signup(context.Background(), SignupRequest{
			Email: "x@example.com", FullName: "X", Password: "secret1", Role: role,
		})
		assert.ErrorIs(t, err, ErrRoleNotAllowed, role)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, role)
	}
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	svc, _ := newTestService(users, new(mockTokens))

	users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Email: "dup@example.com", FullName: "Dup", Password: "secret1", Role: "listener",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	assert.Equal(t, "EMAIL_EXISTS", ErrEmailAlreadyExists.Code())
}

func TestService_Login_Success(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokens)
	svc, hasher := newTestService(users, tokens)

	digest, err := hasher.Hash("secret1")
	require.NoError(t, err)
	exp := time.Now().Add(30 * time.Minute)

	users.On("GetByEmail", mock.Anything, "org@example.com").
		Return(&domain.User{ID: 1, Email: "org@example.com", PasswordHash: digest, Role: domain.RoleOrganization}, nil)
	tokens.On("IssueDefault", "org@example.com").Return("signed.jwt.token", exp, nil)

	res, err := svc.Login(context.Background(), "org@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", res.AccessToken)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, exp, res.ExpiresAt)
	tokens.AssertExpectations(t)
}

func TestService_Login_FailuresAreIndistinguishable(t *testing.T) {
	users := new(mockUserRepo)
	tokens := new(mockTokens)
	svc, hasher := newTestService(users, tokens)

	digest, err := hasher.Hash("secret1")
	require.NoError(t, err)

	users.On("GetByEmail", mock.Anything, "org@example.com").
		Return(&domain.User{ID: 1, Email: "org@example.com", PasswordHash: digest}, nil)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, repository.ErrNotFound)

	hasher.verifies = 0
	_, wrongPassword := svc.Login(context.Background(), "org@example.com", "nope")
	_, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "nope")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, 2, hasher.verifies, "unknown email must still run a password comparison")
	tokens.AssertNotCalled(t, "IssueDefault", mock.Anything)
}

func TestService_Login_StoreError(t *testing.T) {
	users := new(mockUserRepo)
	svc, _ := newTestService(users, new(mockTokens))

	boom := errors.New("connection reset")
	users.On("GetByEmail", mock.Anything, "a@b.co").Return(nil, boom)

	_, err := svc.Login(context.Background(), "a@b.co", "x")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, domain.KindOf(err))
}

// flakyHasher fails the first Hash call and records every digest it verifies.
type flakyHasher struct {
	*password.Hasher
	failures int
	digests  []string
}

func (h *flakyHasher) Hash(plain string) (string, error) {
	if h.failures > 0 {
		h.failures--
		return "", errors.New("entropy exhausted")
	}
	return h.Hasher.Hash(plain)
}

func (h *flakyHasher) Verify(plain, digest string) bool {
	h.digests = append(h.digests, digest)
	return h.Hasher.Verify(plain, digest)
}

func TestService_Login_UnknownEmailRecoversFromDummyHashFailure(t *testing.T) {
	users := new(mockUserRepo)
	log, hook := test.NewNullLogger()
	hasher := &flakyHasher{Hasher: password.NewHasher(bcrypt.MinCost), failures: 1}
	svc := NewService(users, hasher, new(mockTokens), log)

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), "ghost@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	require.Len(t, hasher.digests, 3)
	assert.Empty(t, hasher.digests[0])
	assert.NotEmpty(t, hasher.digests[1], "dummy digest must be rebuilt after a failed hash")
	assert.Equal(t, hasher.digests[1], hasher.digests[2])
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
}
