package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration, read from a YAML file with
// environment overrides for values that should not live on disk.
type Config struct {
	ListenAddr   string `yaml:"listen_addr"`
	DatabasePath string `yaml:"database_path"`
	// JWTSecret is the base64-encoded HMAC signing secret. The
	// WORKTIME_SIGNING_SECRET environment variable takes precedence.
	JWTSecret string `yaml:"jwt_secret"`

	Renderer Renderer `yaml:"renderer"`
	Report   Report   `yaml:"report"`
}

// Renderer configures the external HTML-to-PDF service.
type Renderer struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Report tunes report computation.
type Report struct {
	// Lenient switches net-minute computation to treat unparseable clock
	// values as 00:00 instead of failing. Off by default.
	Lenient bool `yaml:"lenient"`
}

func defaults() Config {
	return Config{
		ListenAddr:   ":4001",
		DatabasePath: "worktime.db",
		Renderer: Renderer{
			URL:            "http://localhost:3100/render",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// run on defaults
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if v := os.Getenv("WORKTIME_SIGNING_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("WORKTIME_DB"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("WORKTIME_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	return cfg, nil
}

// SigningSecret decodes the base64 JWT secret.
func (c Config) SigningSecret() ([]byte, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	secret, err := base64.StdEncoding.DecodeString(c.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("decode jwt secret: %w", err)
	}
	return secret, nil
}

// RendererTimeout returns the configured renderer timeout as a duration.
func (c Config) RendererTimeout() time.Duration {
	return time.Duration(c.Renderer.TimeoutSeconds) * time.Second
}
