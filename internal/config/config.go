package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the runtime configuration for the API, sourced from
// environment variables.
type Config struct {
	HTTPAddr      string `env:"HTTP_ADDR"      envDefault:":8080"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"backoffice"`

	Token TokenConfig
	OTP   OTPConfig
	NVI   NVIConfig
}

// TokenConfig configures access token issuance.
type TokenConfig struct {
	Secret    string        `env:"ACCESS_TOKEN_SECRET"`
	Issuer    string        `env:"ACCESS_TOKEN_ISSUER"     envDefault:"backoffice-api"`
	ExpiresIn time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN" envDefault:"24h"`
}

// OTPConfig configures the login one-time code.
type OTPConfig struct {
	ExpiresIn time.Duration `env:"OTP_EXPIRES_IN" envDefault:"10m"`
}

// NVIConfig configures the national identity verification service. Disabled
// skips the outbound call entirely, for local development.
type NVIConfig struct {
	Endpoint string `env:"NVI_ENDPOINT"`
	Disabled bool   `env:"NVI_DISABLED"`
}

// Load parses the configuration from environment variables and fails fast
// when required values are missing.
func Load(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks that the configuration is usable.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing ACCESS_TOKEN_SECRET environment variable")
	}
	if c.Token.ExpiresIn <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRES_IN must be positive")
	}
	if c.OTP.ExpiresIn <= 0 {
		return fmt.Errorf("OTP_EXPIRES_IN must be positive")
	}

	return nil
}
