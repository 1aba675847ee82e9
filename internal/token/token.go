// Package token issues and verifies the signed session credentials that
// bind a user id and email for a fixed validity window. Tokens are
// stateless; there is no server-side revocation.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Malformed,
// expired, and badly signed tokens are deliberately indistinguishable to
// callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the registered claims plus the identity bound at issuance.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Principal is the verified identity attached to a request after a token
// passes verification.
type Principal struct {
	UserID string
	Email  string
}

// Service signs and verifies session tokens with an HMAC secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token binding the given user id and email, valid for the
// configured window from now.
func (s *Service) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify parses and validates a token string and returns the bound
// principal. Any failure yields ErrInvalidToken.
func (s *Service) Verify(tokenString string) (*Principal, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return &Principal{UserID: claims.UserID, Email: claims.Email}, nil
}
