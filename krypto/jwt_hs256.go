package krypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("krypto: invalid token")

const signingPurpose = "chef-kit/jwt-hs256/v1"

// TokenIssuer signs and verifies HS256 tokens with a key derived from the
// application secret.
type TokenIssuer struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// NewTokenIssuer derives the signing key from secret.
func NewTokenIssuer(secret, issuer string) (*TokenIssuer, error) {
	key, err := DeriveKey(secret, signingPurpose, 32)
	if err != nil {
		return nil, err
	}
	return &TokenIssuer{key: key, issuer: issuer, now: time.Now}, nil
}

// Issue returns a signed token for subject valid for ttl.
func (ti *TokenIssuer) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("krypto: token ttl must be positive, got %v", ttl)
	}

	now := ti.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    ti.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.key)
}

// Parse verifies token and returns its claims.
func (ti *TokenIssuer) Parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ti.now),
		jwt.WithExpirationRequired(),
	}
	if ti.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ti.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return ti.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
