package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `env:"CP_TEST_NAME" default:"terminal"`
	Port    int32         `env:"CP_TEST_PORT" default:"3000"`
	Rate    float64       `env:"CP_TEST_RATE" default:"1500"`
	Enabled bool          `env:"CP_TEST_ENABLED" default:"true"`
	Delay   time.Duration `env:"CP_TEST_DELAY" default:"5s"`
	Nested  struct {
		Host string `env:"CP_TEST_NESTED_HOST" default:"localhost"`
	}
	NoTag string
}

func TestParseEnv_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, "terminal", cfg.Name)
	assert.EqualValues(t, 3000, cfg.Port)
	assert.Equal(t, 1500.0, cfg.Rate)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Delay)
	assert.Equal(t, "localhost", cfg.Nested.Host)
	assert.Empty(t, cfg.NoTag)
}

func TestParseEnv_EnvOverrides(t *testing.T) {
	t.Setenv("CP_TEST_PORT", "8080")
	t.Setenv("CP_TEST_DELAY", "250ms")
	t.Setenv("CP_TEST_NESTED_HOST", "db")

	var cfg testConfig
	require.NoError(t, ParseEnv(&cfg))

	assert.EqualValues(t, 8080, cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, "db", cfg.Nested.Host)
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("CP_TEST_PORT", "not-a-number")

	var cfg testConfig
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CP_TEST_PORT")
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	assert.ErrorIs(t, ParseEnv(testConfig{}), ErrNotStructPointer)
}

func TestLoadAndParseYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
cp_test:
  name: "display"
  rate: "${CP_TEST_RATE_SRC:-2000}"
  nested:
    host: cache
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CP_TEST_PORT", "9000")
	t.Cleanup(func() {
		os.Unsetenv("CP_TEST_NAME")
		os.Unsetenv("CP_TEST_RATE")
		os.Unsetenv("CP_TEST_NESTED_HOST")
	})

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(path, &cfg))

	assert.Equal(t, "display", cfg.Name)
	assert.Equal(t, 2000.0, cfg.Rate)
	assert.Equal(t, "cache", cfg.Nested.Host)
	assert.EqualValues(t, 9000, cfg.Port)
}

func TestLoadAndParseYaml_MissingFileUsesDefaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(filepath.Join(t.TempDir(), "absent.yaml"), &cfg))
	assert.Equal(t, "terminal", cfg.Name)
}

func TestLoadYamlFile_NoPath(t *testing.T) {
	assert.ErrorIs(t, LoadYamlFile(""), ErrNoFilePath)
}
