// Package utils provides helpers for session tokens and password hashing.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultAccessTTL is used when NewTokenService is given a non-positive ttl.
const DefaultAccessTTL = 60 * time.Minute

var (
	// ErrTokenExpired means the signature checked out but the clock is past exp.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers a bad signature, malformed structure, an
	// unexpected algorithm, a missing exp or an empty subject.
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessToken represents a signed JWT along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// sessionClaims carries the exact expiry next to the registered exp.  exp is
// a whole-second NumericDate rounded up so the parser never expires a token
// early; exp_ns holds the instant the token really stops being valid.
type sessionClaims struct {
	jwt.RegisteredClaims
	ExpiresAtNano int64 `json:"exp_ns,omitempty"`
}

// TokenService issues and verifies HS256 session tokens whose subject is a
// username.  The secret is fixed at construction; rotating it means building
// a new service, which invalidates every outstanding token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for issuing and verifying.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// TTL is the default lifetime of issued tokens.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject using the default TTL.
func (s *TokenService) Issue(subject string) (AccessToken, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL signs a token for subject that expires exactly ttl from now.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (AccessToken, error) {
	now := s.now().UTC()
	exp := now.Add(ttl)
	expSec := exp.Truncate(time.Second)
	if expSec.Before(exp) {
		expSec = expSec.Add(time.Second)
	}
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expSec),
			ID:        uuid.NewString(),
		},
		ExpiresAtNano: exp.UnixNano(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify returns the subject of raw.  The parser checks the algorithm and
// signature before it looks at any claim, so a forged exp never gets as far
// as the expiry check.
func (s *TokenService) Verify(raw string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrTokenInvalid
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	if claims.ExpiresAtNano != 0 && !s.now().Before(time.Unix(0, claims.ExpiresAtNano)) {
		return "", ErrTokenExpired
	}
	return claims.Subject, nil
}
