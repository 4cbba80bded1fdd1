package urlsigner

import (
	"time"

	"github.com/hmchef/chef-kit/config"
	"github.com/hmchef/chef-kit/settings"
)

const defaultExpiry = 30 * time.Minute

// Config defines the configuration for URL signer
type Config struct {
	// SecretKey is the application secret the HMAC key is derived from
	SecretKey string

	// DefaultExpiry applies when SignURL is called with a non-positive expiry
	DefaultExpiry time.Duration

	// Query parameter names
	SignatureParam string
	ExpiresParam   string
	PayloadParam   string
}

// FromSettings returns a Config using the resolved SECRET_KEY and default parameter names.
func FromSettings(s settings.Settings) Config {
	return Config{
		SecretKey:      s.SecretKey,
		DefaultExpiry:  defaultExpiry,
		SignatureParam: "sig",
		ExpiresParam:   "expires",
		PayloadParam:   "payload",
	}
}

func bindings() []config.Binding {
	return []config.Binding{
		{Field: "DefaultExpiry", Key: "URLSIGNER_DEFAULT_EXPIRY", Default: defaultExpiry.String()},
		{Field: "SignatureParam", Key: "URLSIGNER_SIGNATURE_PARAM", Default: "sig"},
		{Field: "ExpiresParam", Key: "URLSIGNER_EXPIRES_PARAM", Default: "expires"},
		{Field: "PayloadParam", Key: "URLSIGNER_PAYLOAD_PARAM", Default: "payload"},
	}
}

// GetConfig combines SECRET_KEY from s with the optional URLSIGNER_* keys.
func GetConfig(s settings.Settings, opts ...config.LoadOptions) (Config, error) {
	values, err := config.Load(bindings(), opts...)
	if err != nil {
		return Config{}, err
	}

	cfg := FromSettings(s)
	if cfg.DefaultExpiry, err = values.Duration("DefaultExpiry"); err != nil {
		return Config{}, err
	}
	if cfg.SignatureParam, err = values.String("SignatureParam"); err != nil {
		return Config{}, err
	}
	if cfg.ExpiresParam, err = values.String("ExpiresParam"); err != nil {
		return Config{}, err
	}
	if cfg.PayloadParam, err = values.String("PayloadParam"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
