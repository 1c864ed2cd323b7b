package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Purpose restricts which operation may consume a token.
type Purpose string

const (
	PurposeLogin             Purpose = "login"
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

// TokenClaims is the verified content of a token.
type TokenClaims struct {
	Subject   string
	Purpose   Purpose
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// claims describes the JWT payload.
type claims struct {
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens. The secret is fixed at construction.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// WithClock returns a copy of the manager that reads time from now.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	return &TokenManager{secret: tm.secret, now: now}
}

// Issue signs a token binding subject to purpose until now+ttl.
func (tm *TokenManager) Issue(subject string, purpose Purpose, ttl time.Duration) (string, TokenClaims, error) {
	if subject == "" || purpose == "" {
		return "", TokenClaims{}, errors.New("subject and purpose are required")
	}
	if ttl <= 0 {
		return "", TokenClaims{}, errors.New("ttl must be positive")
	}

	issuedAt := jwt.NewNumericDate(tm.now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(ttl))
	c := &claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tm.secret)
	if err != nil {
		return "", TokenClaims{}, err
	}
	return signed, TokenClaims{
		Subject:   subject,
		Purpose:   purpose,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// Verify checks signature and expiry and returns the embedded claims.
func (tm *TokenManager) Verify(tokenStr string) (TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return TokenClaims{}, classify(err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return TokenClaims{}, ErrMalformed
	}
	if c.Subject == "" || c.Purpose == "" || c.ExpiresAt == nil {
		return TokenClaims{}, ErrMalformed
	}

	out := TokenClaims{
		Subject:   c.Subject,
		Purpose:   c.Purpose,
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	return out, nil
}

// VerifyFor verifies the token and requires its purpose claim to equal purpose.
func (tm *TokenManager) VerifyFor(tokenStr string, purpose Purpose) (TokenClaims, error) {
	c, err := tm.Verify(tokenStr)
	if err != nil {
		return TokenClaims{}, err
	}
	if c.Purpose != purpose {
		return TokenClaims{}, ErrPurposeMismatch
	}
	return c, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	}
	return ErrMalformed
}
