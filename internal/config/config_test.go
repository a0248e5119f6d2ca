package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.True(t, cfg.Lifecycle.StrictTransitions)
	assert.Equal(t, 300, cfg.Redis.CacheTTLSeconds)
	assert.Equal(t, 6000, cfg.RateLimit.MaxRequests)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  dbname: tracker
lifecycle:
  strict_transitions: false
cors:
  allowed_origins:
    - https://sdo.example.org
`)
	t.Setenv("DATABASE_NAME", "from_env")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from_env", cfg.Database.DBName)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.False(t, cfg.Lifecycle.StrictTransitions)
	assert.Equal(t, []string{"https://sdo.example.org"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := writeConfig(t, "server:\n  mode: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERVER_PORT=7070\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "oracle"}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{
		Server:   ServerConfig{Mode: "release"},
		Database: DatabaseConfig{Driver: "postgres"},
		JWT:      JWTConfig{Secret: "short"},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}
