// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. In development a
local '.env' file is loaded first with 'joho/godotenv'; real environment
variables always win over the file.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the movies API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Key-Value store (Redis). Optional; enables per-user vote throttling.
	RedisURL string `env:"REDIS_URL"`

	// Vote throttling window (per authenticated user)
	VoteLimit  int64         `env:"VOTE_LIMIT"  envDefault:"10"`
	VoteWindow time.Duration `env:"VOTE_WINDOW" envDefault:"1m"`

	// Token verification. The private key is only needed to mint dev tokens.
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required,notEmpty"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`

	// AdminAPIKeyHash is the bcrypt hash of the admin API key. Empty disables it.
	AdminAPIKeyHash string `env:"ADMIN_API_KEY_HASH"`

	// Cross-Origin Resource Sharing (production only; development allows all)
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"movies.app"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current environment onto a [Config] struct.
// It fails if any field marked 'required' is missing.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.VoteLimit < 1 {
		return nil, fmt.Errorf("config: VOTE_LIMIT must be positive, got %d", cfg.VoteLimit)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
