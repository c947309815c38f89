package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifeed/pkg/config"
)

type simulatorConfig struct {
	FirstDelay  time.Duration `env:"SIM_FIRST_DELAY" envDefault:"5s"`
	Interval    time.Duration `env:"SIM_INTERVAL" envDefault:"10s"`
	Probability float64       `env:"SIM_PROBABILITY" envDefault:"0.3"`
}

type requiredConfig struct {
	Topic string `env:"CFG_TEST_TOPIC,required"`
}

func noFiles() config.Option {
	return config.WithEnvFiles(filepath.Join(os.TempDir(), "notifeed-does-not-exist.env"))
}

func TestLoad_Defaults(t *testing.T) {
	var cfg simulatorConfig
	require.NoError(t, config.Load(&cfg, noFiles()))

	assert.Equal(t, 5*time.Second, cfg.FirstDelay)
	assert.Equal(t, 10*time.Second, cfg.Interval)
	assert.InDelta(t, 0.3, cfg.Probability, 1e-9)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SIM_INTERVAL", "250ms")
	t.Setenv("SIM_PROBABILITY", "1")

	var cfg simulatorConfig
	require.NoError(t, config.Load(&cfg, noFiles()))

	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
	assert.InDelta(t, 1.0, cfg.Probability, 1e-9)
}

func TestLoad_WithPrefix(t *testing.T) {
	t.Setenv("FEED_SIM_INTERVAL", "1s")

	var cfg simulatorConfig
	require.NoError(t, config.Load(&cfg, noFiles(), config.WithPrefix("FEED_")))
	assert.Equal(t, time.Second, cfg.Interval)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("CFG_TEST_TOPIC=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CFG_TEST_TOPIC") })

	var cfg requiredConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(file)))
	assert.Equal(t, "from-file", cfg.Topic)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("CFG_TEST_TOPIC=from-file\n"), 0o600))
	t.Setenv("CFG_TEST_TOPIC", "from-env")

	var cfg requiredConfig
	require.NoError(t, config.Load(&cfg, config.WithEnvFiles(file)))
	assert.Equal(t, "from-env", cfg.Topic)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("nil pointer", func(t *testing.T) {
		var cfg *simulatorConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("missing required", func(t *testing.T) {
		t.Setenv("CFG_TEST_TOPIC", "")
		require.NoError(t, os.Unsetenv("CFG_TEST_TOPIC"))

		var cfg requiredConfig
		assert.ErrorIs(t, config.Load(&cfg, noFiles()), config.ErrParsingConfig)
	})

	t.Run("bad value", func(t *testing.T) {
		t.Setenv("SIM_INTERVAL", "soon")

		var cfg simulatorConfig
		assert.ErrorIs(t, config.Load(&cfg, noFiles()), config.ErrParsingConfig)
	})

	t.Run("malformed env file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, "not-a-file.env"), 0o700))

		var cfg simulatorConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(dir, "not-a-file.env")))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})
}

func TestMustLoad(t *testing.T) {
	t.Setenv("CFG_TEST_TOPIC", "")
	require.NoError(t, os.Unsetenv("CFG_TEST_TOPIC"))

	var cfg requiredConfig
	assert.Panics(t, func() { config.MustLoad(&cfg, noFiles()) })
}
