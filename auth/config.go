package auth

import (
	"fmt"
	"time"
)

// Signing methods accepted by Config.Method.
const (
	HS256 = "HS256"
	HS384 = "HS384"
	HS512 = "HS512"
)

// minSecretLength is the shortest accepted HMAC secret, in bytes.
const minSecretLength = 32

// Config configures token signing and verification.
type Config struct {
	// Enabled turns bearer authentication on for protected routes.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Secret is the HMAC signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Method is HS256, HS384 or HS512 (default HS256).
	Method string `yaml:"method" mapstructure:"method"`
	// Issuer is checked against "iss" when set.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// Audience is checked against "aud" when set.
	Audience string `yaml:"audience" mapstructure:"audience"`
	// TokenTTL is the lifetime of issued tokens (default 15m).
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
	// Leeway tolerates clock skew on time-based claims.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 15 * time.Minute
	}
}

// Validate checks the configuration. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return fmt.Errorf("auth.method must be one of HS256, HS384, HS512 (got: %q)", c.Method)
	}
	if len(c.Secret) < minSecretLength {
		return fmt.Errorf("auth.secret must be at least %d bytes", minSecretLength)
	}
	if c.TokenTTL < 0 || c.Leeway < 0 {
		return fmt.Errorf("auth.token_ttl and auth.leeway must be non-negative")
	}
	return nil
}
