// Package config loads the booking form service configuration from defaults,
// an optional YAML file and BOOKINGFORM_* environment variables, in that
// order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/fotosfolio/go-bookingform/pkg/client"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "BOOKINGFORM_"

// Defaults.
const (
	DefaultListen     = ":8080"
	DefaultSiteURL    = "https://fotosfolio.com"
	DefaultSessionTTL = 30 * time.Minute
)

// Config is the service configuration.
type Config struct {
	Listen         string        `yaml:"listen" env:"LISTEN" validate:"required"`
	APIBaseURL     string        `yaml:"apiBaseUrl" env:"API_BASE_URL" validate:"required,url"`
	RequestTimeout time.Duration `yaml:"requestTimeout" env:"REQUEST_TIMEOUT" validate:"gt=0"`
	RetryMax       int           `yaml:"retryMax" env:"RETRY_MAX" validate:"gte=0"`
	SessionTTL     time.Duration `yaml:"sessionTtl" env:"SESSION_TTL" validate:"gt=0"`
	MaxUploadBytes int64         `yaml:"maxUploadBytes" env:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	SiteURL        string        `yaml:"siteUrl" env:"SITE_URL" validate:"omitempty,url"`
	AssetPrefix    string        `yaml:"assetPrefix" env:"ASSET_PREFIX" validate:"required,startswith=/"`
	TemplatesDir   string        `yaml:"templatesDir" env:"TEMPLATES_DIR"`
	MetricsEnabled bool          `yaml:"metricsEnabled" env:"METRICS_ENABLED"`
	LogLevel       string        `yaml:"logLevel" env:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:         DefaultListen,
		APIBaseURL:     client.DefaultBaseURL,
		RequestTimeout: client.DefaultTimeout,
		RetryMax:       0,
		SessionTTL:     DefaultSessionTTL,
		MaxUploadBytes: client.DefaultMaxUploadBytes,
		SiteURL:        DefaultSiteURL,
		AssetPrefix:    "/assets",
		MetricsEnabled: true,
		LogLevel:       "info",
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config: invalid %s (%s)", first.Field(), first.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// SlogLevel parses LogLevel, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Client builds the booking API client described by c.
func (c Config) Client(logger *slog.Logger) *client.Client {
	return client.New(c.APIBaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithRetryMax(c.RetryMax),
		client.WithMaxUploadBytes(c.MaxUploadBytes),
		client.WithLogger(logger),
	)
}

var durationType = reflect.TypeOf(time.Duration(0))

// applyEnv assigns fields from the variables named in their env tag.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("env")
		if tag == "" {
			continue
		}
		name := EnvPrefix + tag
		raw, ok := lookup(name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		raw = strings.TrimSpace(raw)

		target := v.Field(i)
		switch {
		case field.Type == durationType:
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("config: %s: %w", name, err)
			}
			target.SetInt(int64(d))
		case target.Kind() == reflect.String:
			target.SetString(raw)
		case target.Kind() == reflect.Int, target.Kind() == reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("config: %s: %w", name, err)
			}
			target.SetInt(n)
		case target.Kind() == reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("config: %s: %w", name, err)
			}
			target.SetBool(b)
		}
		slog.Debug("config value from environment", "key", t.Name()+"."+field.Name, "source", name)
	}
	return nil
}
