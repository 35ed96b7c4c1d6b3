package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
# local setup
database:
  host: localhost
  port: 5432
  user: roadassist
  password: secret
  database: roadassist

rabbitmq:
  host: localhost
  port: 5672
  user: guest
  password: guest

http:
  port: 3000

jwt:
  secret: dev-secret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "roadassist", cfg.Database.Database)
	assert.Equal(t, "guest", cfg.RabbitMQ.User)
	assert.Equal(t, "3000", cfg.HTTP.Port)
	assert.Equal(t, "dev-secret", cfg.JWT.Secret)
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("RA_DB_HOST", "db.internal")
	os.Unsetenv("RA_HTTP_PORT")

	path := writeConfig(t, `
database:
  host: ${RA_DB_HOST:-localhost}

http:
  port: ${RA_HTTP_PORT:-8080}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host, "set env var wins")
	assert.Equal(t, "8080", cfg.HTTP.Port, "unset env var falls back to the default")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
