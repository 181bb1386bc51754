// Package config handles configuration for the CLI and HTTP server,
// including defaults, a YAML overlay, FORMBUILDER_* environment overrides
// and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverS3       = "s3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FORMBUILDER_"

// Config holds runtime settings.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Theme   ThemeConfig   `yaml:"theme"`
}

// StorageConfig selects and tunes the store backend. DSN is a file path for
// sqlite, a connection string for postgres and a URL for redis.
type StorageConfig struct {
	Driver      string        `yaml:"driver" validate:"oneof=memory sqlite postgres redis s3"`
	DSN         string        `yaml:"dsn" validate:"required_if=Driver sqlite,required_if=Driver postgres,required_if=Driver redis"`
	KeyPrefix   string        `yaml:"key_prefix"`
	TTL         time.Duration `yaml:"ttl" validate:"gte=0"`
	S3Bucket    string        `yaml:"s3_bucket" validate:"required_if=Driver s3"`
	S3Prefix    string        `yaml:"s3_prefix"`
	S3Region    string        `yaml:"s3_region"`
	S3Endpoint  string        `yaml:"s3_endpoint" validate:"omitempty,url"`
	S3AccessKey string        `yaml:"s3_access_key"`
	S3SecretKey string        `yaml:"s3_secret_key"`
	Metrics     bool          `yaml:"metrics"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=console json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
	MaxUploadMB     int64         `yaml:"max_upload_mb" validate:"gte=1"`
}

// ThemeConfig points the HTML renderer at go-theme manifests and optional
// presentation presets.
type ThemeConfig struct {
	Manifests []string `yaml:"manifests" validate:"dive,required"`
	Name      string   `yaml:"name"`
	Variant   string   `yaml:"variant"`
	Presets   string   `yaml:"presets"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Storage = StorageConfig{
		Driver: DriverSQLite,
		DSN:    "formbuilder.db",
	}
	c.Log = LogConfig{
		Level:  "info",
		Format: "console",
	}
	c.Server = ServerConfig{
		Addr:            "127.0.0.1:8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxUploadMB:     32,
	}
}

// Default returns a Config holding the defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	return cfg
}

// Load builds a Config by applying defaults, then overlaying values from the
// YAML file at path (skipped when path is empty) and finally from the
// environment. The result is not validated; call Validate after applying
// flag overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays FORMBUILDER_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}

	textVars := map[string]*string{
		"STORAGE_DRIVER":     &c.Storage.Driver,
		"STORAGE_DSN":        &c.Storage.DSN,
		"STORAGE_KEY_PREFIX": &c.Storage.KeyPrefix,
		"S3_BUCKET":          &c.Storage.S3Bucket,
		"S3_PREFIX":          &c.Storage.S3Prefix,
		"S3_REGION":          &c.Storage.S3Region,
		"S3_ENDPOINT":        &c.Storage.S3Endpoint,
		"S3_ACCESS_KEY":      &c.Storage.S3AccessKey,
		"S3_SECRET_KEY":      &c.Storage.S3SecretKey,
		"LOG_LEVEL":          &c.Log.Level,
		"LOG_FORMAT":         &c.Log.Format,
		"LOG_FILE":           &c.Log.File,
		"SERVER_ADDR":        &c.Server.Addr,
		"THEME_NAME":         &c.Theme.Name,
		"THEME_VARIANT":      &c.Theme.Variant,
		"THEME_PRESETS":      &c.Theme.Presets,
	}
	for key, target := range textVars {
		if value, ok := lookup(EnvPrefix + key); ok {
			*target = value
		}
	}

	durations := map[string]*time.Duration{
		"STORAGE_TTL":             &c.Storage.TTL,
		"SERVER_READ_TIMEOUT":     &c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":    &c.Server.WriteTimeout,
		"SERVER_SHUTDOWN_TIMEOUT": &c.Server.ShutdownTimeout,
	}
	var errs []error
	for key, target := range durations {
		value, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err))
			continue
		}
		*target = d
	}

	if value, ok := lookup(EnvPrefix + "STORAGE_METRICS"); ok {
		c.Storage.Metrics = isTrue(value)
	}
	if value, ok := lookup(EnvPrefix + "THEME_MANIFESTS"); ok {
		c.Theme.Manifests = splitList(value)
	}
	return errors.Join(errs...)
}

func isTrue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Overrides carries command-line flag values. Empty fields leave the
// configuration unchanged.
type Overrides struct {
	Storage  string
	DSN      string
	LogLevel string
	Addr     string
}

// Apply overlays non-empty flag values.
func (c *Config) Apply(o Overrides) {
	if o.Storage != "" {
		c.Storage.Driver = o.Storage
	}
	if o.DSN != "" {
		c.Storage.DSN = o.DSN
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.Addr != "" {
		c.Server.Addr = o.Addr
	}
}
