// Copyright (c) 2026 Taskly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. An optional '.env'
file in the working directory is loaded first; real environment variables
always win over it.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Limiter, Tokens) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Storage Drivers

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MinSecretLength is the shortest accepted HMAC signing secret, in bytes.
const MinSecretLength = 32

// # Configuration Schema

// Config holds all runtime configuration for the Taskly API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational database. The URL scheme selects the driver:
	// postgres:// or postgresql:// for PostgreSQL, sqlite:// for SQLite.
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://todo_app.db"`

	// Key-Value Cache (Redis). Optional; enables the identity existence cache.
	RedisURL string `env:"REDIS_URL"`

	// Token signing
	JWTSecret       string        `env:"JWT_SECRET,required"`
	JWTIssuer       string        `env:"JWT_ISSUER"        envDefault:"taskly"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	TokenLeeway     time.Duration `env:"TOKEN_LEEWAY"      envDefault:"0s"`

	// Password hashing work factor
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// Failed-authentication limiter (signup/login)
	AuthMaxAttempts   int           `env:"AUTH_MAX_ATTEMPTS"   envDefault:"5"`
	AuthAttemptWindow time.Duration `env:"AUTH_ATTEMPT_WINDOW" envDefault:"15m"`

	// Per-IP request throttle on the /auth route group
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"10"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW"   envDefault:"60s"`

	// Optional identity existence check in the authentication middleware
	VerifyIdentity   bool          `env:"VERIFY_IDENTITY"    envDefault:"false"`
	IdentityCacheTTL time.Duration `env:"IDENTITY_CACHE_TTL" envDefault:"5m"`

	// Honour X-Real-IP / X-Forwarded-For. Enable only behind a trusted proxy.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Host header allow-list. "*" admits every host; "*.example.com" admits subdomains.
	AllowedHosts []string `env:"ALLOWED_HOSTS" envSeparator:"," envDefault:"localhost,127.0.0.1,0.0.0.0,*.ngrok.io"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is the normal production case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings that would make the auth layer unsafe or inert.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes", MinSecretLength)
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}

	if c.AuthMaxAttempts < 1 || c.AuthAttemptWindow <= 0 {
		return errors.New("config: AUTH_MAX_ATTEMPTS and AUTH_ATTEMPT_WINDOW must be positive")
	}

	if c.RateLimitRequests < 1 || c.RateLimitWindow <= 0 {
		return errors.New("config: RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}

	if _, err := c.DatabaseDriver(); err != nil {
		return err
	}

	return nil
}

// DatabaseDriver derives the storage driver from the DATABASE_URL scheme.
func (c *Config) DatabaseDriver() (string, error) {
	switch {
	case strings.HasPrefix(c.DatabaseURL, "postgres://"), strings.HasPrefix(c.DatabaseURL, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(c.DatabaseURL, "sqlite://"):
		return DriverSQLite, nil
	default:
		return "", fmt.Errorf("config: unsupported DATABASE_URL scheme in %q", redactURL(c.DatabaseURL))
	}
}

// SQLitePath returns the filesystem path of a sqlite:// DATABASE_URL.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the configured CORS allow-list.
func (c *Config) Origins() []string {
	return c.AllowedOrigins
}

// redactURL drops everything after the scheme so credentials never reach logs.
func redactURL(raw string) string {
	if scheme, _, found := strings.Cut(raw, "://"); found {
		return scheme + "://…"
	}
	return "…"
}
