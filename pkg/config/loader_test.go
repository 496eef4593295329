package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwellcms/seckit/pkg/config"
)

// Each test uses its own struct type: parsed configuration is cached per
// type for the life of the process.

func TestLoad(t *testing.T) {
	type storageConfig struct {
		Dir    string        `env:"TEST_STORAGE_DIR" envDefault:"/var/lib/app"`
		Sweep  time.Duration `env:"TEST_STORAGE_SWEEP" envDefault:"24h"`
		Secure bool          `env:"TEST_STORAGE_SECURE" envDefault:"false"`
	}

	t.Setenv("TEST_STORAGE_DIR", "/tmp/storage")
	t.Setenv("TEST_STORAGE_SECURE", "true")

	var cfg storageConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "/tmp/storage", cfg.Dir)
	assert.Equal(t, 24*time.Hour, cfg.Sweep)
	assert.True(t, cfg.Secure)
}

func TestLoad_Defaults(t *testing.T) {
	type limitsConfig struct {
		MaxAttempts int           `env:"TEST_LIMITS_MAX" envDefault:"5"`
		Decay       time.Duration `env:"TEST_LIMITS_DECAY" envDefault:"1h"`
	}

	var cfg limitsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, time.Hour, cfg.Decay)
}

func TestLoad_CachesPerType(t *testing.T) {
	type cachedConfig struct {
		Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
	}

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	// A changed environment is invisible once the type has been parsed.
	t.Setenv("TEST_CACHED_VALUE", "second")

	var again cachedConfig
	require.NoError(t, config.Load(&again))
	assert.Equal(t, "first", again.Value)
}

func TestLoad_ParseError(t *testing.T) {
	type brokenConfig struct {
		Count int `env:"TEST_BROKEN_COUNT" envDefault:"5"`
	}

	t.Setenv("TEST_BROKEN_COUNT", "not-a-number")

	var cfg brokenConfig
	assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	assert.ErrorIs(t, config.Load[struct{}](nil), config.ErrNilPointer)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	type requiredConfig struct {
		Port int `env:"TEST_REQUIRED_PORT" envDefault:"8080"`
	}

	t.Setenv("TEST_REQUIRED_PORT", "not-a-port")

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
