package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"STORE_DRIVER", "PORT", "DIRECTORY_CACHE_TTL", "FUEL_LITERS_PER_100KM", "STOP_STATUS_POLICY"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, 15*time.Minute, cfg.DirectoryCacheTTL)
	assert.Equal(t, 12.0, cfg.FuelLitersPer100Km)
	assert.False(t, cfg.StrictStopTransitions)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("REDIS_DATABASE", "3")
	t.Setenv("DIRECTORY_CACHE_TTL", "90s")
	t.Setenv("FUEL_LITERS_PER_100KM", "9.5")
	t.Setenv("STOP_STATUS_POLICY", "strict")
	t.Setenv("REESTIMATE_ON_OPTIMIZE", "yes")
	t.Setenv("DEBUG", "YES")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.RedisDatabase)
	assert.Equal(t, 90*time.Second, cfg.DirectoryCacheTTL)
	assert.Equal(t, 9.5, cfg.FuelLitersPer100Km)
	assert.True(t, cfg.StrictStopTransitions)
	assert.True(t, cfg.ReestimateOnOptimize)
	assert.True(t, cfg.Debug)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":          "oracle",
		"REDIS_DATABASE":        "zero",
		"DIRECTORY_CACHE_TTL":   "soon",
		"FUEL_LITERS_PER_100KM": "-1",
		"STOP_STATUS_POLICY":    "lenient",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestPostgresRequiresURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}
