package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/subscriptions/pkg/config"
)

type testConfig struct {
	Name    string        `env:"CFG_TEST_NAME" envDefault:"default"`
	Port    int           `env:"CFG_TEST_PORT" envDefault:"8080"`
	Tags    []string      `env:"CFG_TEST_TAGS" envSeparator:","`
	Timeout time.Duration `env:"CFG_TEST_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Secret string `env:"CFG_TEST_REQUIRED_SECRET,required"`
}

type nested struct {
	Inner testConfig
	Flag  bool `env:"CFG_TEST_FLAG"`
}

func TestLoad(t *testing.T) {
	config.ResetCache()
	t.Setenv("CFG_TEST_NAME", "from_env")

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_env", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	// Cached per type.
	t.Setenv("CFG_TEST_NAME", "changed")
	var again testConfig
	require.NoError(t, config.Load(&again))
	assert.Equal(t, "from_env", again.Name)

	config.ResetCache()
	require.NoError(t, config.Load(&again))
	assert.Equal(t, "changed", again.Name)
}

func TestLoad_Nested(t *testing.T) {
	config.ResetCache()
	t.Setenv("CFG_TEST_PORT", "7070")
	t.Setenv("CFG_TEST_FLAG", "true")

	var cfg nested
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 7070, cfg.Inner.Port)
	assert.True(t, cfg.Flag)
}

func TestLoad_Errors(t *testing.T) {
	config.ResetCache()

	assert.ErrorIs(t, config.Load[testConfig](nil), config.ErrNilPointer)

	var req requiredConfig
	assert.ErrorIs(t, config.Load(&req), config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&req) })

	t.Setenv("CFG_TEST_PORT", "not-a-number")
	var cfg testConfig
	assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
}

// unsetEnv clears keys for the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadEnv(t *testing.T) {
	unsetEnv(t, "CFG_TEST_NAME", "CFG_TEST_PORT", "CFG_TEST_TAGS")

	require.NoError(t, config.LoadEnv("testdata/.env.test", "testdata/.env.override"))

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_file", cfg.Name)
	assert.Equal(t, 9191, cfg.Port, "later files override earlier ones")
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)

	assert.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnv)
}

func TestLoadEnv_ProcessEnvWins(t *testing.T) {
	unsetEnv(t, "CFG_TEST_PORT", "CFG_TEST_TAGS")
	t.Setenv("CFG_TEST_NAME", "process")
	require.NoError(t, config.LoadEnv("testdata/.env.test"))

	var cfg testConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "process", cfg.Name)
}
