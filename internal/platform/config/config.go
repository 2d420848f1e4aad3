// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/yomira/booru/internal/platform/sec"
)

// # Configuration Schema

// Config holds all runtime configuration for the Yomira API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for session and identity signing
	SessionSecret  string `env:"SESSION_SECRET,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// PasswordSecret and ContentSecret are required at startup, but main.go
	// passes neither to any component: password hashes carry no pepper, and
	// no content.Store (which keys its filenames with such a secret) is built.
	PasswordSecret string `env:"PASSWORD_SECRET,required"`
	ContentSecret  string `env:"CONTENT_SECRET,required"`

	// Object Storage (Cloudflare R2 / S3-compatible)
	S3Bucket   string `env:"S3_BUCKET"`
	S3Region   string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint string `env:"S3_ENDPOINT"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// # Content storage
	//
	// DataDir is the filesystem root for posts/, generated-thumbnails/,
	// custom-thumbnails/, avatars/, and temp/ (§6). DataURL is the public
	// base URL of those paths. main.go reads neither, and no response
	// carries a URL built from DataURL.
	DataDir              string `env:"DATA_DIR"                envDefault:"./data/files"`
	DataURL              string `env:"DATA_URL,required"`
	DeleteSourceFiles    bool   `env:"DELETE_SOURCE_FILES"      envDefault:"false"`
	ThumbnailWidth       int    `env:"THUMBNAIL_WIDTH"          envDefault:"300"`
	ThumbnailHeight      int    `env:"THUMBNAIL_HEIGHT"         envDefault:"300"`
	AvatarWidth          int    `env:"AVATAR_WIDTH"             envDefault:"300"`
	AvatarHeight         int    `env:"AVATAR_HEIGHT"            envDefault:"300"`

	// # Naming conventions
	//
	// Regexes for the names of newly created users, tags, and pools. No
	// component reads them, so names are not checked against these patterns.
	UserNameRegex string `env:"USER_NAME_REGEX" envDefault:"^[a-zA-Z0-9_-]{1,32}$"`
	TagNameRegex  string `env:"TAG_NAME_REGEX"  envDefault:"^\\S+$"`
	PoolNameRegex string `env:"POOL_NAME_REGEX" envDefault:"^\\S+$"`

	// # Reverse search
	//
	// SimilarityThreshold is the maximum normalised signature distance
	// (§4.C) a candidate may have and still be reported as "similar".
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.3"`

	// # Site policy
	//
	// DefaultRank is the rank newly registered accounts receive; it is
	// passed to user.NewService. SiteName and SafetyEnabled are loaded but
	// not read: no endpoint reports the site name, and unsafe content is
	// gated only by the per-user "post_view_unsafe" privilege check.
	SiteName       string   `env:"SITE_NAME"        envDefault:"Yomira Booru"`
	DefaultRank    sec.Rank `env:"DEFAULT_RANK"     envDefault:"regular"`
	SafetyEnabled  bool     `env:"SAFETY_ENABLED"   envDefault:"true"`

	// # Mail (optional)
	//
	// The SMTP settings are loaded but not read: no mailer.Mailer
	// implementation exists, and no password-reset or email-verification
	// flow sends mail.
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"     envDefault:"noreply@yomira.local"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
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
