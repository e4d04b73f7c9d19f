package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authservice/pkg/config"
)

type appConfig struct {
	Name    string        `env:"AUTHSVC_TEST_NAME" envDefault:"authservice"`
	Port    int           `env:"AUTHSVC_TEST_PORT" envDefault:"8080"`
	Tags    []string      `env:"AUTHSVC_TEST_TAGS" envSeparator:","`
	Timeout time.Duration `env:"AUTHSVC_TEST_TIMEOUT" envDefault:"5s"`
}

type requiredConfig struct {
	Secret string `env:"AUTHSVC_TEST_SECRET,required,notEmpty"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("AUTHSVC_TEST_NAME", "")

		var cfg appConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("cached per type", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("AUTHSVC_TEST_PORT", "1111")

		var first appConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, 1111, first.Port)

		t.Setenv("AUTHSVC_TEST_PORT", "2222")
		var second appConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, 1111, second.Port)

		var reloaded appConfig
		require.NoError(t, config.ForceReloadConfig(&reloaded))
		assert.Equal(t, 2222, reloaded.Port)
	})

	t.Run("required missing", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("AUTHSVC_TEST_SECRET", "")

		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *appConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	config.ResetCache()
	t.Setenv("AUTHSVC_TEST_SECRET", "")

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})

	t.Setenv("AUTHSVC_TEST_SECRET", "s3cr3t")
	assert.NotPanics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
		assert.Equal(t, "s3cr3t", cfg.Secret)
	})
}

func TestLoadEnv(t *testing.T) {
	// LoadEnv writes into the process environment; t.Setenv restores it afterwards.
	t.Setenv("AUTHSVC_TEST_NAME", "")
	t.Setenv("AUTHSVC_TEST_PORT", "")
	t.Setenv("AUTHSVC_TEST_TAGS", "")
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/.env.base", "testdata/.env.override"))

	var cfg appConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.Name)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)

	err := config.LoadEnv("testdata/missing.env")
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	assert.Panics(t, func() { config.MustLoadEnv("testdata/missing.env") })
}
