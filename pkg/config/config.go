// Package config loads service settings from the environment and match files
// for the command line tool.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/arnavshah/lineup-rotator-go/pkg/scheduler"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port    string `env:"PORT" envDefault:"8000"`
	GinMode string `env:"GIN_MODE"`
	AppEnv  string `env:"APP_ENV"`

	DatabaseURL string `env:"DATABASE_URL"`
	DataPath    string `env:"DATA_PATH" envDefault:"rotator.db"`

	JWTSecret       string `env:"JWT_SECRET"`
	APIMasterSecret string `env:"API_MASTER_SECRET"`
	AdminUsername   string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword   string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	Rotation RotationDefaults
}

// RotationDefaults fill in settings a request leaves empty.
type RotationDefaults struct {
	Attempts       int `env:"ROTATION_ATTEMPTS" envDefault:"800"`
	RepairRounds   int `env:"REPAIR_ROUNDS" envDefault:"50"`
	MaxGKPerPlayer int `env:"MAX_GK_PER_PLAYER" envDefault:"1"`
}

// envPaths are tried in order; the first existing file wins.
var envPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first .env file found. Variables already set win.
func LoadDotEnv() {
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads .env and then parses the environment.
func Load() (*Config, error) {
	LoadDotEnv()
	return FromEnv()
}

// FromEnv parses the current environment without touching .env files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate requires both signing secrets and checks the numeric defaults.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.APIMasterSecret == "" {
		return errors.New("API_MASTER_SECRET must be set")
	}
	return c.Rotation.Validate()
}

// Validate checks the numeric defaults.
func (r RotationDefaults) Validate() error {
	if r.Attempts < 1 || r.Attempts > scheduler.MaxAttempts {
		return fmt.Errorf("ROTATION_ATTEMPTS must be 1-%d, got %d", scheduler.MaxAttempts, r.Attempts)
	}
	if r.RepairRounds < 1 {
		return fmt.Errorf("REPAIR_ROUNDS must be positive, got %d", r.RepairRounds)
	}
	if r.MaxGKPerPlayer < 1 {
		return fmt.Errorf("MAX_GK_PER_PLAYER must be positive, got %d", r.MaxGKPerPlayer)
	}
	return nil
}

// LoadRotationDefaults reads only the generator defaults. The command line
// generator uses it and needs no signing secrets.
func LoadRotationDefaults() (RotationDefaults, error) {
	LoadDotEnv()
	var r RotationDefaults
	if err := env.Parse(&r); err != nil {
		return r, fmt.Errorf("parse env: %w", err)
	}
	return r, r.Validate()
}
