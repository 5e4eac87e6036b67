package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration, loaded from a YAML file with
// environment variable overrides for deployment.
type Config struct {
	Addr     string         `yaml:"addr"`
	Dev      bool           `yaml:"dev"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
}

type DatabaseConfig struct {
	ConnString  string `yaml:"conn_string"`
	MaxConns    int32  `yaml:"max_conns"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type AuthConfig struct {
	TokenSecret string        `yaml:"token_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads configuration from path (optional) and applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if cfg.Auth.TokenSecret == "" {
		return nil, fmt.Errorf("auth token secret is required (AICOUNCIL_TOKEN_SECRET)")
	}
	if len(cfg.Auth.TokenSecret) < 32 {
		return nil, fmt.Errorf("auth token secret must be at least 32 bytes")
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AICOUNCIL_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("AICOUNCIL_DATABASE_URL"); v != "" {
		c.Database.ConnString = v
	}
	if v := os.Getenv("AICOUNCIL_TOKEN_SECRET"); v != "" {
		c.Auth.TokenSecret = v
	}
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:8080"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	}
}
