package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when the config file omits a field.
const (
	DefaultAddr            = ":8317"
	DefaultDSN             = "file:data/painel.db"
	DefaultJWTExpiryHours  = 24
	DefaultLogLevel        = "info"
	DefaultDrawDelayMillis = 5000
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Listen address.
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // SQLite path or PostgreSQL DSN.
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret      string `yaml:"secret"`       // HMAC signing secret.
	ExpiryHours int    `yaml:"expiry-hours"` // Token lifetime in hours.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`        // logrus level name.
	File       string `yaml:"file"`         // Log file path; empty logs to stderr.
	MaxSizeMB  int    `yaml:"max-size-mb"`  // Rotation size threshold.
	MaxBackups int    `yaml:"max-backups"`  // Rotated files kept.
	MaxAgeDays int    `yaml:"max-age-days"` // Rotated file retention.
	Compress   bool   `yaml:"compress"`     // Gzip rotated files.
}

// AllocationConfig holds draw flow settings.
type AllocationConfig struct {
	// DrawDelayMillis is the cosmetic processing delay shown to sellers
	// before a drawn number is revealed. It never blocks other operations.
	// Omitting the key selects the default; an explicit 0 disables the delay.
	DrawDelayMillis *int `yaml:"draw-delay-ms"`
}

// SeedConfig holds first-boot seed data.
type SeedConfig struct {
	Enabled       bool     `yaml:"enabled"`        // Seed only when the users table is empty.
	AdminName     string   `yaml:"admin-name"`     // Seeded admin display name.
	AdminEmail    string   `yaml:"admin-email"`    // Seeded admin login email.
	AdminPassword string   `yaml:"admin-password"` // Seeded admin password (hashed on insert).
	Matriculas    []string `yaml:"matriculas"`     // Seeded code numbers or suffixes.
}

// Config is the full panel configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Log        LogConfig        `yaml:"log"`
	Allocation AllocationConfig `yaml:"allocation"`
	Seed       SeedConfig       `yaml:"seed"`
}

// DrawDelay returns the configured cosmetic draw delay.
func (c *Config) DrawDelay() time.Duration {
	millis := c.Allocation.DrawDelayMillis
	if millis == nil || *millis <= 0 {
		return 0
	}
	return time.Duration(*millis) * time.Millisecond
}

// JWTExpiry returns the configured session token lifetime.
func (c *Config) JWTExpiry() time.Duration {
	return c.JWT.Expiry()
}

// Expiry returns the token lifetime, falling back to the default.
func (c JWTConfig) Expiry() time.Duration {
	hours := c.ExpiryHours
	if hours <= 0 {
		hours = DefaultJWTExpiryHours
	}
	return time.Duration(hours) * time.Hour
}

// ResolveConfigPath picks the config file path from the explicit value,
// the PAINEL_CONFIG environment variable, or the working directory default.
func ResolveConfigPath(explicit string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return filepath.Clean(trimmed)
	}
	if env := strings.TrimSpace(os.Getenv("PAINEL_CONFIG")); env != "" {
		return filepath.Clean(env)
	}
	return "config.yaml"
}

// Load reads and validates the YAML config at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	raw, errRead := os.ReadFile(path)
	if errRead != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, errRead)
	}
	return Parse(raw)
}

// Parse decodes raw YAML into a Config and applies defaults.
func Parse(raw []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if errDecode := dec.Decode(cfg); errDecode != nil {
		return nil, fmt.Errorf("config: decode: %w", errDecode)
	}
	cfg.applyDefaults()
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, fmt.Errorf("config: jwt.secret is required")
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = DefaultAddr
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		c.Database.DSN = DefaultDSN
	}
	if c.JWT.ExpiryHours <= 0 {
		c.JWT.ExpiryHours = DefaultJWTExpiryHours
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Allocation.DrawDelayMillis == nil {
		millis := DefaultDrawDelayMillis
		c.Allocation.DrawDelayMillis = &millis
	} else if *c.Allocation.DrawDelayMillis < 0 {
		*c.Allocation.DrawDelayMillis = 0
	}
}
