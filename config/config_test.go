package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig("", "api")
	require.NoError(t, err)

	assert.Equal(t, types.APIService, cfg.Mode)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 15, cfg.Dashboard.PageSize)
	assert.Equal(t, 10, cfg.Dashboard.TrendSize)
	assert.Equal(t, 5, cfg.Dashboard.RecentSize)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Empty(t, cfg.Remote.SessionsURL)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestNewConfig_FromYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
  cors_origins:
    - https://a.example
    - https://b.example
remote:
  sessions_url: http://tracker.local/api/sessions
  max_retries: 4
rabbitmq:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	for _, key := range []string{"SERVER_PORT", "SERVER_CORS_ORIGINS", "REMOTE_SESSIONS_URL", "REMOTE_MAX_RETRIES", "RABBITMQ_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := NewConfig(path, "ingest-worker")
	require.NoError(t, err)

	assert.Equal(t, types.IngestWorker, cfg.Mode)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "http://tracker.local/api/sessions", cfg.Remote.SessionsURL)
	assert.Equal(t, 4, cfg.Remote.MaxRetries)
	assert.True(t, cfg.RabbitMQ.Enabled)
}

func TestNewConfig_Mode(t *testing.T) {
	_, err := NewConfig("", "")
	require.ErrorIs(t, err, ErrModeNotProvided)

	_, err = NewConfig("", "admin")
	require.ErrorIs(t, err, ErrInvalidMode)
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", Database: "studylens", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/studylens?sslmode=disable", db.GetDSN())

	mq := RabbitMQConfig{Host: "mq", Port: "5672", User: "guest", Password: "guest"}
	assert.Equal(t, "amqp://guest:guest@mq:5672/", mq.GetDSN())
}

func TestPrintConfig_MasksSecrets(t *testing.T) {
	cfg, err := NewConfig("", "api")
	require.NoError(t, err)
	cfg.Auth.JWTSecret = "top-secret"
	cfg.Database.Password = "db-secret"

	var buf bytes.Buffer
	PrintConfig(&buf, cfg)

	out := buf.String()
	assert.NotContains(t, out, "top-secret")
	assert.NotContains(t, out, "db-secret")
	assert.Contains(t, out, "jwt_secret: ****")
	assert.Contains(t, out, "sessions_url: (disabled)")
}
