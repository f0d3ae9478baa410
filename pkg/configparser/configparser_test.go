package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenYaml(t *testing.T) {
	t.Setenv("STUDYLENS_TEST_PASSWORD", "from-env")

	doc := []byte(`
database:
  host: db.internal
  port: 5432
  password: ${STUDYLENS_TEST_PASSWORD:-fallback}
  user: ${STUDYLENS_TEST_UNSET:-studylens}
server:
  cors_origins:
    - http://localhost:3000
    - https://dash.example.com
empty:
`)

	vars, err := FlattenYaml(doc)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", vars["DATABASE_HOST"])
	assert.Equal(t, "5432", vars["DATABASE_PORT"])
	assert.Equal(t, "from-env", vars["DATABASE_PASSWORD"])
	assert.Equal(t, "studylens", vars["DATABASE_USER"])
	assert.Equal(t, "http://localhost:3000,https://dash.example.com", vars["SERVER_CORS_ORIGINS"])
	assert.NotContains(t, vars, "EMPTY")
}

type testConfig struct {
	Name    string        `env:"TESTCFG_NAME" default:"studylens"`
	Port    int           `env:"TESTCFG_PORT" default:"8080"`
	Enabled bool          `env:"TESTCFG_ENABLED" default:"true"`
	Ratio   float64       `env:"TESTCFG_RATIO" default:"0.5"`
	Timeout time.Duration `env:"TESTCFG_TIMEOUT" default:"3s"`
	Origins []string      `env:"TESTCFG_ORIGINS"`
	Nested  struct {
		Secret string `env:"TESTCFG_NESTED_SECRET"`
	}
}

func TestParseEnv_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("TESTCFG_PORT", "9000")
	t.Setenv("TESTCFG_ORIGINS", "a, b,,c")
	t.Setenv("TESTCFG_NESTED_SECRET", "s3cret")

	var cfg testConfig
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, "studylens", cfg.Name)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Enabled)
	assert.InDelta(t, 0.5, cfg.Ratio, 1e-9)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Origins)
	assert.Equal(t, "s3cret", cfg.Nested.Secret)
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("TESTCFG_PORT", "eighty")

	var cfg testConfig
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TESTCFG_PORT")
}

func TestParseEnv_RequiresPointer(t *testing.T) {
	assert.ErrorIs(t, ParseEnv(testConfig{}), ErrNotStructPointer)
}

func TestLoadAndParseYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("testcfg:\n  name: from-file\n"), 0o600))
	t.Setenv("TESTCFG_NAME", "")

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(path, &cfg))
	assert.Equal(t, "from-file", cfg.Name)
}

func TestLoadAndParseYaml_MissingFile(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(filepath.Join(t.TempDir(), "nope.yaml"), &cfg))
	assert.Equal(t, 8080, cfg.Port)
}
