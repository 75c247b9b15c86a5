package main

import (
	"fmt"

	"github.com/kbukum/errkit/auth"
	"github.com/kbukum/errkit/auth/password"
	"github.com/kbukum/errkit/config"
	"github.com/kbukum/errkit/observability"
	"github.com/kbukum/errkit/server"
)

// AppConfig is the demo service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config        `yaml:"server" mapstructure:"server"`
	Catalog   CatalogConfig        `yaml:"catalog" mapstructure:"catalog"`
	Auth      auth.Config          `yaml:"auth" mapstructure:"auth"`
	Password  password.Config      `yaml:"password" mapstructure:"password"`
	RateLimit RateLimitConfig      `yaml:"rate_limit" mapstructure:"rate_limit"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// CatalogConfig selects the business error catalog.
type CatalogConfig struct {
	// File replaces the bundled catalog when set.
	File string `yaml:"file" mapstructure:"file"`
}

// RateLimitConfig throttles the public API per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ApplyDefaults fills unset fields of every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Password.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 120
	}
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Password.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be non-negative (got: %d)", c.RateLimit.RequestsPerMinute)
	}
	return nil
}
