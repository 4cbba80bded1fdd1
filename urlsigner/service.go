package urlsigner

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/hmchef/chef-kit/krypto"
)

// Define standard errors for the package
var (
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrInvalidURL         = errors.New("invalid URL")
	ErrSignatureNotFound  = errors.New("signature not found")
	ErrExpirationNotFound = errors.New("expiration not found")
	ErrExpired            = errors.New("URL has expired")
	ErrInvalidSignature   = errors.New("invalid signature")
)

const signingPurpose = "chef-kit/urlsigner/v1"

// Signer handles URL signing operations
type Signer struct {
	key           []byte
	defaultExpiry time.Duration
	sigParam      string
	expiresParam  string
	payloadParam  string
	now           func() time.Time
}

// New creates a Signer from cfg.
func New(cfg Config) (*Signer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	key, err := krypto.DeriveKey(cfg.SecretKey, signingPurpose, sha256.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Signer{
		key:           key,
		defaultExpiry: cfg.DefaultExpiry,
		sigParam:      cfg.SignatureParam,
		expiresParam:  cfg.ExpiresParam,
		payloadParam:  cfg.PayloadParam,
		now:           time.Now,
	}, nil
}

func validateConfig(cfg Config) error {
	if cfg.SecretKey == "" {
		return errors.New("secret key required")
	}
	if cfg.DefaultExpiry <= 0 {
		return errors.New("default expiry must be positive")
	}
	if cfg.SignatureParam == "" || cfg.ExpiresParam == "" || cfg.PayloadParam == "" {
		return errors.New("query parameter names must not be empty")
	}
	if cfg.SignatureParam == cfg.ExpiresParam || cfg.SignatureParam == cfg.PayloadParam || cfg.ExpiresParam == cfg.PayloadParam {
		return errors.New("query parameter names must be distinct")
	}
	return nil
}

// SignURL signs a URL with an expiration time and optional payload.
// A non-positive expiry uses the configured default.
func (s *Signer) SignURL(rawURL string, expiry time.Duration, payload string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if expiry <= 0 {
		expiry = s.defaultExpiry
	}

	q := u.Query()
	q.Del(s.sigParam)
	q.Set(s.expiresParam, strconv.FormatInt(s.now().Add(expiry).Unix(), 10))
	if payload != "" {
		q.Set(s.payloadParam, base64.RawURLEncoding.EncodeToString([]byte(payload)))
	} else {
		q.Del(s.payloadParam)
	}
	u.RawQuery = q.Encode()

	q.Set(s.sigParam, s.signature(u.String()))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// VerifyURL checks the signature and expiry of signedURL and returns its payload.
func (s *Signer) VerifyURL(signedURL string) (string, error) {
	u, err := url.Parse(signedURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	q := u.Query()
	sig := q.Get(s.sigParam)
	if sig == "" {
		return "", ErrSignatureNotFound
	}
	expires, err := s.expiresAt(q)
	if err != nil {
		return "", err
	}

	q.Del(s.sigParam)
	u.RawQuery = q.Encode()
	if !hmac.Equal([]byte(sig), []byte(s.signature(u.String()))) {
		return "", ErrInvalidSignature
	}

	// Expiry is checked after the signature so a forged timestamp reports as forged.
	if s.now().After(expires) {
		return "", ErrExpired
	}

	return s.decodePayload(q)
}

// ExtractPayload returns the payload of signedURL without verifying it.
func (s *Signer) ExtractPayload(signedURL string) (string, error) {
	u, err := url.Parse(signedURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return s.decodePayload(u.Query())
}

// IsExpired reports whether signedURL is past its expiration time.
func (s *Signer) IsExpired(signedURL string) (bool, error) {
	u, err := url.Parse(signedURL)
	if err != nil {
		return true, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	expires, err := s.expiresAt(u.Query())
	if err != nil {
		return true, err
	}
	return s.now().After(expires), nil
}

func (s *Signer) expiresAt(q url.Values) (time.Time, error) {
	raw := q.Get(s.expiresParam)
	if raw == "" {
		return time.Time{}, ErrExpirationNotFound
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid expiration: %w", err)
	}
	return time.Unix(unix, 0), nil
}

func (s *Signer) decodePayload(q url.Values) (string, error) {
	encoded := q.Get(s.payloadParam)
	if encoded == "" {
		return "", nil
	}
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("invalid payload encoding: %w", err)
	}
	return string(b), nil
}

func (s *Signer) signature(canonical string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil))
}
