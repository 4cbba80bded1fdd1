package krypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrEmptySecret is returned when key material is derived from an empty secret.
var ErrEmptySecret = errors.New("krypto: empty secret")

// DeriveKey expands secret into size bytes of key material bound to purpose,
// using HKDF-SHA256. Different purposes yield independent keys from the same
// SECRET_KEY.
func DeriveKey(secret, purpose string, size int) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if size <= 0 {
		return nil, fmt.Errorf("krypto: invalid key size %d", size)
	}

	key := make([]byte, size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// GenerateSecretKey returns size random bytes, base64 URL encoded without
// padding, suitable as a SECRET_KEY value.
func GenerateSecretKey(size int) (string, error) {
	if size < 16 {
		return "", fmt.Errorf("krypto: secret size must be at least 16 bytes, got %d", size)
	}

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
