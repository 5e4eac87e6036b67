package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	assert := require.New(t)

	t.Setenv("AICOUNCIL_TOKEN_SECRET", testSecret)

	cfg, err := Load("")
	assert.NoError(err)
	assert.Equal("localhost:8080", cfg.Addr)
	assert.Equal(24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal([]string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFromFile(t *testing.T) {
	assert := require.New(t)

	t.Setenv("AICOUNCIL_TOKEN_SECRET", "")

	path := writeConfigFile(t, `
addr: 0.0.0.0:9000
database:
  conn_string: postgres://localhost:5432/aicouncil
  max_conns: 10
  auto_migrate: true
auth:
  token_secret: `+testSecret+`
  token_ttl: 1h
cors:
  allowed_origins:
    - https://app.example.com
`)

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("0.0.0.0:9000", cfg.Addr)
	assert.Equal("postgres://localhost:5432/aicouncil", cfg.Database.ConnString)
	assert.Equal(int32(10), cfg.Database.MaxConns)
	assert.True(cfg.Database.AutoMigrate)
	assert.Equal(time.Hour, cfg.Auth.TokenTTL)
	assert.Equal([]string{"https://app.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestEnvOverridesFile(t *testing.T) {
	assert := require.New(t)

	path := writeConfigFile(t, `
addr: localhost:9000
auth:
  token_secret: `+testSecret+`
`)

	t.Setenv("AICOUNCIL_ADDR", "localhost:7000")
	t.Setenv("AICOUNCIL_DATABASE_URL", "postgres://override:5432/db")

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal("localhost:7000", cfg.Addr)
	assert.Equal("postgres://override:5432/db", cfg.Database.ConnString)
}

func TestLoadRequiresSecret(t *testing.T) {
	assert := require.New(t)

	t.Setenv("AICOUNCIL_TOKEN_SECRET", "")

	_, err := Load("")
	assert.Error(err)
	assert.Contains(err.Error(), "token secret is required")
}

func TestLoadRejectsShortSecret(t *testing.T) {
	assert := require.New(t)

	t.Setenv("AICOUNCIL_TOKEN_SECRET", "too-short")

	_, err := Load("")
	assert.Error(err)
	assert.Contains(err.Error(), "at least 32 bytes")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
