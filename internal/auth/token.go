// Package auth issues and verifies the bearer tokens that gate item access.
// Tokens are stateless HS256 JWTs carrying the username and an expiry; there
// is no server-side session table and no revocation.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalid means the signature did not match or the payload is malformed.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired means the token verified but its expiry has passed.
	ErrExpired = errors.New("token expired")
)

// Service signs and verifies tokens with a process-lifetime secret.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a token service. ttl is the token lifetime from issuance.
func NewService(secret []byte, ttl time.Duration) *Service {
	return &Service{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock overrides the service clock. Test hook for expiry behavior.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue returns a signed token binding username, valid for the service TTL.
func (s *Service) Issue(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the bound username.
// Expired tokens yield ErrExpired; anything else that fails yields ErrInvalid.
func (s *Service) Verify(tokenStr string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalid
	}
	return claims.Subject, nil
}
