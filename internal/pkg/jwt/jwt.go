package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues and validates HMAC-signed access tokens whose subject is
// the user's email.
type Service struct {
	secret []byte
	method jwtlib.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func New(secret, algorithm string, ttl time.Duration) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("jwt ttl must be > 0")
	}
	method := jwtlib.GetSigningMethod(strings.ToUpper(strings.TrimSpace(algorithm)))
	if _, ok := method.(*jwtlib.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q: expected one of HS256, HS384, HS512", algorithm)
	}

	return &Service{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs {sub, exp, iat} for subject with the given lifetime.
func (s *Service) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := jwtlib.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		IssuedAt:  jwtlib.NewNumericDate(now),
	}

	signed, err := jwtlib.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *Service) IssueDefault(subject string) (string, time.Time, error) {
	return s.Issue(subject, s.ttl)
}

// Validate checks signature, algorithm and expiry and returns the subject.
func (s *Service) Validate(tokenStr string) (string, error) {
	claims := &jwtlib.RegisteredClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{s.method.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
