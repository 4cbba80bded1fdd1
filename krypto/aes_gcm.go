package krypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrCiphertextTooShort is returned when sealed data is shorter than a nonce.
var ErrCiphertextTooShort = errors.New("krypto: ciphertext too short")

const encryptionPurpose = "chef-kit/aes-gcm/v1"

// Cipher defines the interface for encryption operations. Sealed output is
// the nonce followed by the GCM ciphertext.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(sealed []byte) ([]byte, error)
	EncryptString(plaintext string) (string, error)
	DecryptString(sealedB64 string) (string, error)
}

type aesGCM struct {
	gcm cipher.AEAD
}

// NewAESGCMService creates an AES-GCM cipher; key must be 16, 24 or 32 bytes.
func NewAESGCMService(key []byte) (Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher block: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &aesGCM{gcm: gcm}, nil
}

// NewAESGCMServiceFromSecret derives an AES-256 key from secret.
func NewAESGCMServiceFromSecret(secret string) (Cipher, error) {
	key, err := DeriveKey(secret, encryptionPurpose, 32)
	if err != nil {
		return nil, err
	}
	return NewAESGCMService(key)
}

func (c *aesGCM) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.gcm.NonceSize(), c.gcm.NonceSize()+len(plaintext)+c.gcm.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return c.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *aesGCM) Decrypt(sealed []byte) ([]byte, error) {
	n := c.gcm.NonceSize()
	if len(sealed) < n {
		return nil, ErrCiphertextTooShort
	}

	plaintext, err := c.gcm.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

func (c *aesGCM) EncryptString(plaintext string) (string, error) {
	sealed, err := c.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *aesGCM) DecryptString(sealedB64 string) (string, error) {
	if sealedB64 == "" {
		return "", ErrCiphertextTooShort
	}

	sealed, err := base64.StdEncoding.DecodeString(sealedB64)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	plaintext, err := c.Decrypt(sealed)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
