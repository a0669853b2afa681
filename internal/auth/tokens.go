// Package auth issues and validates bearer tokens and provides the
// middleware that gates authenticated routes. Tokens are short-lived HS256
// JWTs; the TTL doubles as the session inactivity window, with clients
// refreshing on activity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MavuriAlekhya2005/docverify/internal/config"
)

// Token validation errors.
var (
	ErrTokenInvalid = errors.New("auth: token invalid")
	ErrTokenExpired = errors.New("auth: token expired")
)

// Claims captures the validated identity carried by a token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// tokenClaims is the internal claims type used for JWT signing and parsing.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Tokens issues and parses bearer tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token issuer from the auth configuration.
func NewTokens(cfg *config.AuthConfig) *Tokens {
	return &Tokens{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTLDuration(),
		now:    time.Now,
	}
}

// Issue creates a signed token for the given identity.
func (t *Tokens) Issue(userID uuid.UUID, email, role string) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
		Email: email,
		Role:  role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expires, nil
}

// Parse validates a token string and returns its claims.
func (t *Tokens) Parse(token string) (Claims, error) {
	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	userID, err := uuid.Parse(parsed.Subject)
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{
		UserID: userID,
		Email:  parsed.Email,
		Role:   parsed.Role,
	}, nil
}
