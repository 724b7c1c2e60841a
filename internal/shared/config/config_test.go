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

func TestLoadFromFileFull(t *testing.T) {
	path := writeConfig(t, `# test config
server:
  port: 8080
  timezone: Europe/Berlin

auth:
  jwt_secret: s3cret

database:
  host: db.internal
  port: 5433
  user: tracking
  password: pw
  database: tracking_hub

rabbitmq:
  host: mq.internal
  port: 5673
  user: guest
  password: guest
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Europe/Berlin", cfg.Server.Timezone)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "tracking_hub", cfg.Database.Name)
	assert.Equal(t, "mq.internal", cfg.RabbitMQ.Host)
	assert.Equal(t, 5673, cfg.RabbitMQ.Port)
}

func TestLoadFromFileDefaults(t *testing.T) {
	path := writeConfig(t, `auth:
  jwt_secret: s3cret

database:
  user: tracking
  password: pw
  database: tracking_hub

rabbitmq:
  user: guest
  password: guest
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "UTC", cfg.Server.Timezone)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "localhost", cfg.RabbitMQ.Host)
	assert.Equal(t, 5672, cfg.RabbitMQ.Port)
}

func TestLoadFromFileMissingSecret(t *testing.T) {
	path := writeConfig(t, `database:
  user: tracking
  password: pw
  database: tracking_hub

rabbitmq:
  user: guest
  password: guest
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret is required")
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := writeConfig(t, `server:
  port: 8080
  turbo: yes
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key in server")
}

func TestLoadFromFileUnknownSection(t *testing.T) {
	path := writeConfig(t, `grill:
  heat: high
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown top-level key")
}

func TestLoadFromFileBadPort(t *testing.T) {
	path := writeConfig(t, `server:
  port: not-a-port
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be int")
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
